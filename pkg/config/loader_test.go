package config

import (
	"os"
	"testing"
)

func TestConfigFile(t *testing.T) {
	var conf Config
	if err := LoadConfig(&conf, ""); err != nil {
		t.Fatal(err)
	}
	if conf.Signaler.Server.Address == "" {
		t.Error("server address not loaded from the config file")
	}
	if conf.Signaler.Monitoring.Port != 6601 {
		t.Errorf("monitoring port = %v, want 6601", conf.Signaler.Monitoring.Port)
	}
}

func TestConfigEnvOverride(t *testing.T) {
	_ = os.Setenv("SIGNALHOP_SIGNALER_MONITORING_PORT", "7777")
	_ = os.Setenv("SIGNALHOP_SIGNALER_DEBUG", "true")
	defer func() {
		_ = os.Unsetenv("SIGNALHOP_SIGNALER_MONITORING_PORT")
		_ = os.Unsetenv("SIGNALHOP_SIGNALER_DEBUG")
	}()

	var conf Config
	if err := LoadConfig(&conf, ""); err != nil {
		t.Fatal(err)
	}
	if conf.Signaler.Monitoring.Port != 7777 {
		t.Errorf("monitoring port = %v, want the env override 7777", conf.Signaler.Monitoring.Port)
	}
	if !conf.Signaler.Debug {
		t.Error("debug flag not overridden from the environment")
	}
}

func TestServerGetAddr(t *testing.T) {
	s := Server{Address: ":8443"}
	s.Tls.Address = ":443"
	if s.GetAddr() != ":8443" {
		t.Errorf("plain addr = %v, want :8443", s.GetAddr())
	}
	s.Https = true
	if s.GetAddr() != ":443" {
		t.Errorf("tls addr = %v, want :443", s.GetAddr())
	}
}
