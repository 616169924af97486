package main

import (
	"net"
	"testing"
)

// freePort reserves an ephemeral port and releases it so the test can bind
// it again through listen.
func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to reserve a port: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}

func TestListenPrefersPrimaryPort(t *testing.T) {
	preferred := freePort(t)
	fallback := freePort(t)

	listener, port, err := listen(preferred, fallback)
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	defer listener.Close()

	if port != preferred {
		t.Errorf("Expected preferred port %d, got %d", preferred, port)
	}
}

func TestListenFallsBackWhenPortTaken(t *testing.T) {
	occupied, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to occupy a port: %v", err)
	}
	defer occupied.Close()
	preferred := occupied.Addr().(*net.TCPAddr).Port
	fallback := freePort(t)

	listener, port, err := listen(preferred, fallback)
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	defer listener.Close()

	if port != fallback {
		t.Errorf("Expected fallback port %d, got %d", fallback, port)
	}
}

func TestListenErrorsWhenBothPortsTaken(t *testing.T) {
	first, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to occupy a port: %v", err)
	}
	defer first.Close()
	second, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to occupy a port: %v", err)
	}
	defer second.Close()

	listener, _, err := listen(
		first.Addr().(*net.TCPAddr).Port,
		second.Addr().(*net.TCPAddr).Port,
	)
	if err == nil {
		listener.Close()
		t.Fatal("Expected an error when both ports are taken")
	}
}
