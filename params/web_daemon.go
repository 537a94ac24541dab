package params

type WebDaemonConfig struct {
	ListenerConfig
	DataDir string

	// TokenEnvVar names the environment variable holding the bearer
	// token required by mutating endpoints. Empty leaves them open.
	TokenEnvVar string
}

func DefaultWebListenerConfig() ListenerConfig {
	return ListenerConfig{
		Network: "tcp",
		Address: "localhost:3000",
	}
}

func DefaultWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		DataDir:        DatadirRoot,
		ListenerConfig: DefaultWebListenerConfig(),
		TokenEnvVar:    "TRANSECTD_TOKEN",
	}
}

func DefaultTestWebDaemonConfig() *WebDaemonConfig {
	return &WebDaemonConfig{
		DataDir: "",
		ListenerConfig: ListenerConfig{
			Network: "tcp",
			Address: "localhost:3333",
		},
		TokenEnvVar: "TRANSECTD_TOKEN",
	}
}
