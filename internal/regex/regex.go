package regex

import "regexp"

// Default release rule grammars. Each one matches a conventional commit header
// `<type>[(<scope>)]: <description>` whose description ends in [a-z0-9].
const (
	MajorGrammar = `^(?P<type>break){1}(?P<scope>\(\S.*\S\))?:\s.*[a-z0-9]$`
	MinorGrammar = `^(?P<type>build|ci|docs|feat){1}(?P<scope>\(\S.*\S\))?:\s.*[a-z0-9]$`
	PatchGrammar = `^(?P<type>fix|perf|refac|sec|style|test){1}(?P<scope>\(\S.*\S\))?:\s.*[a-z0-9]$`
)

var (
	// Version tag patterns
	SemVerTag = regexp.MustCompile(`^v(?P<major>[0-9]+)\.(?P<minor>[0-9]+)\.(?P<patch>[0-9]+)$`)

	// Squash-merge headers end with the pull request reference, e.g. "Add x (#12)"
	PullRequestNumber = regexp.MustCompile(`\([a-z]*#(?P<number>[0-9]+)\)$`)

	// Git and Repo patterns
	SSHRepo   = regexp.MustCompile(`git@([^:]+):([^/]+)/(.+)\.git$`)
	HTTPSRepo = regexp.MustCompile(`https://([^/]+)/([^/]+)/(.+?)(?:\.git)?$`)
)
