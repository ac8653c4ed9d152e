package cli

var (
	RunWithWriter = run
	LoadEnvFile   = loadEnvFile
	IndexConfig   = getIndexConfig
)
