package model

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"path"
	"strings"
)

// ErrInvalidItem is returned when an item descriptor fails validation
var ErrInvalidItem = errors.New("invalid item")

// Default values
const (
	DefaultOutputName = "download"
	MaxPort           = 65535
)

// ProxyProtocol is the SOCKS protocol version used to reach the proxy server
type ProxyProtocol string

const (
	ProxyNone   ProxyProtocol = "none"
	ProxySocks4 ProxyProtocol = "socks4"
	ProxySocks5 ProxyProtocol = "socks5"
)

// ProxyProtocolOptions returns the selectable protocols in display order
func ProxyProtocolOptions() []ProxyProtocol {
	return []ProxyProtocol{ProxyNone, ProxySocks4, ProxySocks5}
}

// ItemDescriptor describes one requested download
type ItemDescriptor struct {
	SourceURL     string        `yaml:"url"`
	OutputName    string        `yaml:"output_name"`
	ProxyServer   string        `yaml:"proxy_server,omitempty"`
	ProxyPort     int           `yaml:"proxy_port,omitempty"`
	ProxyProtocol ProxyProtocol `yaml:"proxy_protocol,omitempty"`
}

// NewItemDescriptor creates a descriptor without proxy, deriving the output
// name from the URL when none is given
func NewItemDescriptor(sourceURL, outputName string) ItemDescriptor {
	item := ItemDescriptor{
		SourceURL:     strings.TrimSpace(sourceURL),
		OutputName:    strings.TrimSpace(outputName),
		ProxyProtocol: ProxyNone,
	}
	item.Normalize()
	return item
}

// Normalize fills defaults: output name from the URL and protocol none
func (it *ItemDescriptor) Normalize() {
	if it.OutputName == "" {
		it.OutputName = DeriveFileName(it.SourceURL)
	}
	if it.ProxyProtocol == "" {
		it.ProxyProtocol = ProxyNone
	}
}

// UsesProxy reports whether the download goes through a SOCKS proxy
func (it ItemDescriptor) UsesProxy() bool {
	return it.ProxyServer != "" && it.ProxyProtocol != ProxyNone && it.ProxyProtocol != ""
}

// ProxyAddress returns "server:port"
func (it ItemDescriptor) ProxyAddress() string {
	return net.JoinHostPort(it.ProxyServer, fmt.Sprintf("%d", it.ProxyPort))
}

// ProxyChanged reports whether server, port or protocol differ from other
func (it ItemDescriptor) ProxyChanged(other ItemDescriptor) bool {
	return it.ProxyServer != other.ProxyServer ||
		it.ProxyPort != other.ProxyPort ||
		it.ProxyProtocol != other.ProxyProtocol
}

// Validate checks the URL and proxy fields
func (it ItemDescriptor) Validate() error {
	u, err := url.ParseRequestURI(it.SourceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: malformed url %q", ErrInvalidItem, it.SourceURL)
	}
	if strings.ContainsAny(it.OutputName, `/\`) {
		return fmt.Errorf("%w: output name %q must not contain path separators", ErrInvalidItem, it.OutputName)
	}
	if it.ProxyServer == "" {
		return nil
	}
	ip := net.ParseIP(it.ProxyServer)
	if ip == nil || ip.To4() == nil || strings.Contains(it.ProxyServer, ":") {
		return fmt.Errorf("%w: proxy server %q is not an IPv4 address", ErrInvalidItem, it.ProxyServer)
	}
	if it.ProxyProtocol == ProxyNone || it.ProxyProtocol == "" {
		return fmt.Errorf("%w: proxy server set without protocol", ErrInvalidItem)
	}
	if it.ProxyProtocol != ProxySocks4 && it.ProxyProtocol != ProxySocks5 {
		return fmt.Errorf("%w: unknown proxy protocol %q", ErrInvalidItem, it.ProxyProtocol)
	}
	if it.ProxyPort <= 0 || it.ProxyPort > MaxPort {
		return fmt.Errorf("%w: proxy port %d out of range", ErrInvalidItem, it.ProxyPort)
	}
	return nil
}

// DeriveFileName returns the last path segment of rawURL, or DefaultOutputName
// when the URL has no usable path
func DeriveFileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return DefaultOutputName
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return DefaultOutputName
	}
	return name
}
