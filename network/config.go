package network

// RPCConfig holds the connection parameters of a wallet bridge's JSON-RPC interface.
type RPCConfig struct {
	URL      string `json:"url" mapstructure:"url"`
	User     string `json:"user" mapstructure:"user"`
	Password string `json:"password" mapstructure:"password"`
	Network  string `json:"network" mapstructure:"network"`
}
