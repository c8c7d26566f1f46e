package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/dayplan/pkg/app"
	"tableflip.dev/dayplan/pkg/timemath"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
	// TransportStdio serves MCP over stdio.
	TransportStdio Transport = "stdio"
)

// Runner coordinates MCP server startup.
type Runner struct {
	Service *app.Service
	// Plan answers requests that name no plan.
	Plan    string
	Window  timemath.Window
	Name    string
	Version string

	Transport        Transport
	HTTPListenAddr   string
	HTTPEndpointPath string
	OnHTTPListening  func(net.Addr)
	HTTPServerCert   string
	HTTPServerKey    string
}

// Do executes the runner.
func (r Runner) Do(ctx context.Context) error {
	if r.Service == nil || r.Service.Persistence == nil {
		return errors.New("mcp runner requires persistence")
	}
	name := r.Name
	if name == "" {
		name = "dayplan"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	srv := NewServer(fmt.Sprintf("%s MCP", name), version, NewService(r.Service, r.Plan, r.Window))

	slog.Info("mcp: serving", "transport", r.Transport, "plan", r.Plan)
	switch t := r.Transport; t {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv)
	case TransportStdio:
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", t)
	}
}

// NewServer builds an MCP server exposing svc's tools and resources.
func NewServer(name, version string, svc *Service) *server.MCPServer {
	srv := server.NewMCPServer(
		name,
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Read and edit a day plan: a timeline of scheduled tasks plus an unscheduled pool."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

// Defaults for the streamable HTTP transport.
const (
	DefaultHTTPAddr = "127.0.0.1:8080"
	DefaultHTTPPath = "/mcp"
)

func (r Runner) endpoint() string {
	path := strings.TrimSpace(r.HTTPEndpointPath)
	if path == "" {
		return DefaultHTTPPath
	}
	return "/" + strings.TrimLeft(path, "/")
}

func (r Runner) listenAddr() string {
	if r.HTTPListenAddr == "" {
		return DefaultHTTPAddr
	}
	return r.HTTPListenAddr
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	useTLS := r.HTTPServerCert != ""
	if useTLS != (r.HTTPServerKey != "") {
		return errors.New("mcp: tls needs both a cert and a key")
	}

	mux := http.NewServeMux()
	mux.Handle(r.endpoint(), server.NewStreamableHTTPServer(srv))
	hs := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ln, err := net.Listen("tcp", r.listenAddr())
	if err != nil {
		return fmt.Errorf("mcp: listen: %w", err)
	}
	if r.OnHTTPListening != nil {
		r.OnHTTPListening(ln.Addr())
	}

	if ctx != nil {
		stop := context.AfterFunc(ctx, func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := hs.Shutdown(sctx); err != nil {
				slog.Warn("mcp: shutdown", "err", err)
			}
		})
		defer stop()
	}

	if useTLS {
		err = hs.ServeTLS(ln, r.HTTPServerCert, r.HTTPServerKey)
	} else {
		err = hs.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
