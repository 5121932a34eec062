package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func TestServer_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	registered := false
	srv := New("bufnet", []Registrar{func(grpc.ServiceRegistrar) { registered = true }})
	if !registered {
		t.Fatal("expected registrar to be invoked")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, bufconn.Listen(1024))
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestServer_RunInvalidAddr(t *testing.T) {
	t.Parallel()

	srv := New("invalid::addr::", nil)
	if err := srv.Run(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
}

func TestRunHTTP_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := lis.Addr().String()
	_ = lis.Close()

	httpSrv := NewHTTP(addr, http.NotFoundHandler())
	if httpSrv.ReadHeaderTimeout != 5*time.Second {
		t.Fatalf("unexpected read header timeout: %v", httpSrv.ReadHeaderTimeout)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunHTTP(ctx, httpSrv)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunHTTP returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("http server did not stop after cancellation")
	}
}
