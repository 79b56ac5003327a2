// Package process manages the lifetime of external child processes.
//
// The document converter spawns helper processes of its own (LibreOffice
// starts soffice.bin behind a launcher script), so cancelling only the direct
// child can leave orphans holding the work directory open. Configure places a
// command in its own process group and KillProcessGroup terminates the whole
// tree.
package process
