package entities

import (
	"net"
	"net/url"
	"strconv"
)

// Credentials is a username/secret pair used for Basic authentication.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ProxySettings configures the outbound HTTP proxy.
type ProxySettings struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// URL returns the proxy address, or nil when no proxy host is set.
func (p *ProxySettings) URL() *url.URL {
	if p == nil || p.Host == "" {
		return nil
	}
	host := p.Host
	if p.Port > 0 {
		host = net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	}
	proxyURL := &url.URL{Scheme: "http", Host: host}
	if p.Username != "" {
		proxyURL.User = url.UserPassword(p.Username, p.Password)
	}
	return proxyURL
}

// ForgeConnection binds a forge client to a server, owner and optional repository.
type ForgeConnection struct {
	ServerURL   string
	Owner       string
	Repository  string
	Credentials *Credentials
	Proxy       *ProxySettings
}
