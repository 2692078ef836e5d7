package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"brieflink/internal/cli"
)

var crumbSuffixes = []string{"-brief", "-note", "-copy", "-task"}

// isCrumbID matches breadcrumb ids: <project-id>-<item-id>-<type>.
func isCrumbID(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "proj-") {
		return false
	}
	for _, suf := range crumbSuffixes {
		if strings.HasSuffix(s, suf) && len(s) > len("proj-")+len(suf) {
			return true
		}
	}
	return false
}

func rewriteCrumbArgs(argv []string) []string {
	// `brieflink <crumb-id>` works like `brieflink trail go <crumb-id>`.
	// Cobra treats the first non-flag token as a subcommand, so argv is
	// rewritten before parsing. Persistent flags may come first.
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":     true,
		"--backend": true,
		"--config":  true,
		"--format":  true,
	}

	insert := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "trail", "go")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) && isCrumbID(argv[i+1]) {
				return insert(i + 1)
			}
			return argv
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		case isCrumbID(a):
			return insert(i)
		default:
			return argv
		}
	}
	return argv
}

func main() {
	os.Args = rewriteCrumbArgs(os.Args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
