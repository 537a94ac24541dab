package params

type ListenerConfig struct {
	// Network must be "tcp", "tcp4", "tcp6", "unix" or "unixpacket".
	Network string
	// Address is the host:port (or socket path) to listen on.
	Address string
}
