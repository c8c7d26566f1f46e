package commands

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/dayplan/pkg/commands/options"
	"tableflip.dev/dayplan/pkg/runner/mcp"
)

type mcpFlags struct {
	transport string
	host      string
	port      int
	path      string
	cert, key string
}

func (f mcpFlags) runner() (mcp.Runner, error) {
	r := mcp.Runner{
		Name:             "dayplan",
		Version:          version,
		HTTPEndpointPath: f.path,
		HTTPServerCert:   strings.TrimSpace(f.cert),
		HTTPServerKey:    strings.TrimSpace(f.key),
	}
	switch t := mcp.Transport(strings.ToLower(strings.TrimSpace(f.transport))); t {
	case "", mcp.TransportHTTP:
		if f.port < 0 || f.port > 65535 {
			return r, fmt.Errorf("mcp: port %d out of range", f.port)
		}
		r.Transport = mcp.TransportHTTP
		r.HTTPListenAddr = net.JoinHostPort(f.hostOrLoopback(), strconv.Itoa(f.port))
	case mcp.TransportStdio:
		r.Transport = t
	default:
		return r, fmt.Errorf("mcp: transport %q is not http or stdio", f.transport)
	}
	return r, nil
}

func (f mcpFlags) hostOrLoopback() string {
	if h := strings.TrimSpace(f.host); h != "" {
		return h
	}
	return "127.0.0.1"
}

func addMCP(topLevel *cobra.Command) {
	po := &options.PlanOptions{}
	f := mcpFlags{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the Model Context Protocol server",
		Long: `Launch an MCP server that lets an assistant read plans and add, schedule,
unassign, complete and delete tasks.`,
		Example: `
dayplan mcp --transport stdio
dayplan mcp --http-port 0
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cfg, svc, err := loadService()
			if err != nil {
				return err
			}
			runner, err := f.runner()
			if err != nil {
				return err
			}
			runner.Service = svc
			runner.Plan = po.Resolve(cfg)
			runner.Window = cfg.Window()
			if runner.Transport == mcp.TransportHTTP {
				runner.OnHTTPListening = announce(cmd.OutOrStdout(), f.hostOrLoopback(), runner.HTTPServerCert != "")
			}
			return runner.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&f.transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&f.host, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&f.port, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&f.path, "http-path", mcp.DefaultHTTPPath, "HTTP endpoint path")
	cmd.Flags().StringVar(&f.cert, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&f.key, "http-tls-key", "", "TLS private key file for HTTPS")
	options.AddPlanArgs(cmd, po)

	topLevel.AddCommand(cmd)
}

// announce prints the URL the server ended up on; a port of 0 is only known
// after listening.
func announce(w io.Writer, host string, tls bool) func(net.Addr) {
	scheme := "http"
	if tls {
		scheme = "https"
	}
	return func(a net.Addr) {
		shown := a.String()
		if tcp, ok := a.(*net.TCPAddr); ok {
			h := host
			if ip := net.ParseIP(h); ip != nil && ip.IsUnspecified() {
				h = "127.0.0.1"
			}
			shown = net.JoinHostPort(h, strconv.Itoa(tcp.Port))
		}
		_, _ = fmt.Fprintf(w, "MCP server listening on %s://%s\n", scheme, shown)
	}
}
