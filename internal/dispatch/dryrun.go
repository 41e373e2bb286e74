package dispatch

// DryRunFlag is passed to the orchestration tool for preview runs.
const DryRunFlag = "-n"

var dryRunTokens = map[string]struct{}{
	"-n":        {},
	"--dry-run": {},
}

// StripDryRun removes every dry-run token from args, wherever it appears, and
// reports whether one was present. args is not modified.
func StripDryRun(args []string) ([]string, bool) {
	rest := make([]string, 0, len(args))
	found := false
	for _, arg := range args {
		if _, ok := dryRunTokens[arg]; ok {
			found = true
			continue
		}
		rest = append(rest, arg)
	}
	return rest, found
}
