// Package shell runs the editor's external commands (such as revealing a file
// in the file manager) and expands user-typed paths, using an in-process POSIX
// shell interpreter.
package shell

// BlockFunc returns true if the given command args should be blocked.
type BlockFunc func(args []string) bool

// CommandsBlocker returns a BlockFunc that blocks exact command name matches.
func CommandsBlocker(cmds []string) BlockFunc {
	blocked := make(map[string]struct{}, len(cmds))
	for _, c := range cmds {
		blocked[c] = struct{}{}
	}
	return func(args []string) bool {
		if len(args) == 0 {
			return false
		}
		_, ok := blocked[args[0]]
		return ok
	}
}

// BannedCommands are refused when a configured command tries to run them.
var BannedCommands = []string{
	// Privilege escalation
	"doas", "su", "sudo", "pkexec",
	// Destructive
	"rm", "rmdir", "shred", "dd", "mkfs", "fdisk", "parted", "truncate",
	// System state
	"shutdown", "reboot", "halt", "poweroff", "systemctl", "kill", "pkill", "killall",
}

// DefaultBlockFuncs returns the standard set of block functions.
func DefaultBlockFuncs() []BlockFunc {
	return []BlockFunc{CommandsBlocker(BannedCommands)}
}
