package config

import (
	goflag "flag"

	flag "github.com/spf13/pflag"
)

type Config struct {
	Signaler Signaler
	Version  int
}

type Signaler struct {
	Debug      bool
	Origin     string
	Server     Server
	Monitoring Monitoring
}

type Server struct {
	Address string
	Https   bool
	Tls     struct {
		Address   string
		Domain    string
		HttpsKey  string
		HttpsCert string
	}
}

type Monitoring struct {
	Port             int
	URLPrefix        string
	MetricEnabled    bool
	ProfilingEnabled bool
}

func (m *Monitoring) IsEnabled() bool { return m.MetricEnabled || m.ProfilingEnabled }

func (s *Server) GetAddr() string {
	if s.Https {
		return s.Tls.Address
	}
	return s.Address
}

// allows custom config path
var configPath string

func NewConfig() (conf Config) {
	if err := LoadConfig(&conf, configPath); err != nil {
		panic(err)
	}
	return
}

// ParseFlags updates the config with command-line overrides.
func (c *Config) ParseFlags() {
	flag.CommandLine.AddGoFlagSet(goflag.CommandLine)
	flag.BoolVarP(&c.Signaler.Debug, "debug", "d", c.Signaler.Debug, "Enable debug logging")
	flag.StringVar(&c.Signaler.Server.Address, "address", c.Signaler.Server.Address, "HTTP server address (host:port)")
	flag.StringVar(&c.Signaler.Server.Tls.Address, "httpsAddress", c.Signaler.Server.Tls.Address, "HTTPS server address (host:port)")
	flag.StringVar(&c.Signaler.Server.Tls.HttpsKey, "httpsKey", c.Signaler.Server.Tls.HttpsKey, "HTTPS key")
	flag.StringVar(&c.Signaler.Server.Tls.HttpsCert, "httpsCert", c.Signaler.Server.Tls.HttpsCert, "HTTPS chain")
	flag.IntVar(&c.Signaler.Monitoring.Port, "monitoring.port", c.Signaler.Monitoring.Port, "Monitoring server port")
	flag.StringVar(&configPath, "conf", configPath, "Set custom configuration file path")
	flag.Parse()
}
