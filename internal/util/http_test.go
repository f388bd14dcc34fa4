package util

import (
	"net/http"
	"testing"
	"time"
)

func TestNewProxyFunc_ExplicitHTTPProxy(t *testing.T) {
	proxyFunc := NewProxyFunc("http://proxy.example.com:8080", "", "")

	req, _ := http.NewRequest(http.MethodGet, "http://target.example.com/page", nil)
	proxyURL, err := proxyFunc(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if proxyURL == nil {
		t.Fatal("Expected proxy URL, got nil")
	}
	if proxyURL.Host != "proxy.example.com:8080" {
		t.Errorf("Expected proxy.example.com:8080, got %s", proxyURL.Host)
	}
}

func TestNewProxyFunc_HTTPSProxyForHTTPSRequests(t *testing.T) {
	proxyFunc := NewProxyFunc("http://plain.example.com:8080", "http://secure.example.com:8443", "")

	req, _ := http.NewRequest(http.MethodGet, "https://target.example.com/page", nil)
	proxyURL, err := proxyFunc(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if proxyURL == nil || proxyURL.Host != "secure.example.com:8443" {
		t.Errorf("Expected HTTPS proxy for https request, got %v", proxyURL)
	}

	req, _ = http.NewRequest(http.MethodGet, "http://target.example.com/page", nil)
	proxyURL, err = proxyFunc(req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if proxyURL == nil || proxyURL.Host != "plain.example.com:8080" {
		t.Errorf("Expected HTTP proxy for http request, got %v", proxyURL)
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(7*time.Second, "", "", "")

	if client.Timeout != 7*time.Second {
		t.Errorf("Expected timeout 7s, got %v", client.Timeout)
	}
	if client.Transport == nil {
		t.Error("Expected transport to be configured")
	}
}
