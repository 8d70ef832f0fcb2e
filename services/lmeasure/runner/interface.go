package runner

// CommandBuilder defines the construction of the tool argument vectors
type CommandBuilder interface {
	Build(inputPath string, names []string) ([]string, error)
	BuildConvert(inputPath string) []string
	IsInterfaceNil() bool
}
