// Command game_server runs the dog walk multiplayer server.
//
// It loads a world description, serves the game API and the static
// frontend on 0.0.0.0:8080, and advances world time either with an
// internal ticker (--tick-period) or through explicit POSTs to
// /api/v1/game/tick. Flags also control spawn randomization, debug
// logging and an optional ngrok tunnel for external playtesting.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/avolkov/dogwalk/api"
	"github.com/avolkov/dogwalk/game/config"
	"github.com/avolkov/dogwalk/game/service"
	"github.com/avolkov/dogwalk/transport/mcp"
	"github.com/avolkov/dogwalk/transport/websocket"
)

const (
	Version = "1.0.0"
	AppName = "Dog Walk Game Server"

	listenAddr = "0.0.0.0:8080"
)

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cmd := &cli.Command{
		Name:    "game_server",
		Usage:   "multiplayer dog walk server",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config-file",
				Aliases:  []string{"c"},
				Usage:    "path to the world description JSON `file`",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "www-root",
				Aliases:  []string{"w"},
				Usage:    "`dir` with the static frontend",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "tick-period",
				Aliases: []string{"t"},
				Usage:   "auto-tick period in `ms`; omit for manual-tick mode",
			},
			&cli.BoolFlag{
				Name:  "randomize-spawn-points",
				Usage: "spawn dogs at random positions on roads",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable request logging",
			},
			&cli.BoolFlag{
				Name:  "ngrok",
				Usage: "expose the server through an ngrok tunnel",
			},
			&cli.StringFlag{
				Name:  "ngrok-auth",
				Usage: "ngrok auth token (or NGROK_AUTHTOKEN env var)",
			},
			&cli.StringFlag{
				Name:  "ngrok-domain",
				Usage: "custom ngrok domain (optional)",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	tickPeriod := cmd.Int("tick-period")
	if cmd.IsSet("tick-period") && tickPeriod <= 0 {
		return fmt.Errorf("tick period must be positive, got %d", tickPeriod)
	}

	cfg, err := config.Load(cmd.String("config-file"))
	if err != nil {
		return fmt.Errorf("failed to load world config: %w", err)
	}

	gameService, err := service.NewGameService(cfg, cmd.Bool("randomize-spawn-points"))
	if err != nil {
		return fmt.Errorf("failed to build world: %w", err)
	}

	log.Printf("Starting %s v%s", AppName, Version)
	log.Printf("Config: %s", cmd.String("config-file"))
	log.Printf("Static files: %s", cmd.String("www-root"))

	runServer(gameService, serverOptions{
		wwwRoot:     cmd.String("www-root"),
		tickPeriod:  time.Duration(tickPeriod) * time.Millisecond,
		debug:       cmd.Bool("debug"),
		ngrok:       cmd.Bool("ngrok"),
		ngrokAuth:   cmd.String("ngrok-auth"),
		ngrokDomain: cmd.String("ngrok-domain"),
	})
	return nil
}

type serverOptions struct {
	wwwRoot     string
	tickPeriod  time.Duration
	debug       bool
	ngrok       bool
	ngrokAuth   string
	ngrokDomain string
}

// runServer wires the hub, API server, ticker and /mcp endpoint, then
// serves until SIGINT or SIGTERM.
func runServer(gameService service.GameService, opts serverOptions) {
	hub := websocket.NewHub()
	go hub.Run()

	apiServer := api.NewServer(gameService, api.Options{
		Hub:        hub,
		StaticRoot: opts.wwwRoot,
		AutoTick:   opts.tickPeriod > 0,
		Debug:      opts.debug,
	})

	// MCP tools proxy through the local REST listener.
	mcpClient := mcp.NewClient("http://localhost:8080")

	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: mainRouter,
		// 30 s between reads on a keep-alive session, then the
		// connection is reclaimed.
		IdleTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	if opts.tickPeriod > 0 {
		ticker := service.NewTicker(opts.tickPeriod, func(deltaMillis int64) {
			if err := gameService.Tick(context.Background(), deltaMillis); err != nil {
				log.Printf("Tick failed: %v", err)
				return
			}
			apiServer.BroadcastState()
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker.Run(ctx)
		}()
		log.Printf("Auto-tick enabled (%v)", opts.tickPeriod)
	} else {
		log.Println("Manual tick mode enabled")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", listenAddr)
		log.Printf("REST API: http://%s/api/v1", listenAddr)
		log.Printf("WebSocket: ws://%s/ws?authToken=<token>", listenAddr)
		log.Printf("MCP endpoint: http://%s/mcp", listenAddr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	ngrokShouldRun := opts.ngrok
	if !ngrokShouldRun {
		if envEnabled := os.Getenv("NGROK_ENABLED"); envEnabled == "true" || envEnabled == "1" {
			ngrokShouldRun = true
		}
	}

	if ngrokShouldRun {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, mainRouter, opts)
		}()
	}

	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
}

// runNgrokTunnel serves the same handler through a public tunnel.
func runNgrokTunnel(ctx context.Context, handler http.Handler, opts serverOptions) {
	authToken := opts.ngrokAuth
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	domain := opts.ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	log.Printf("Ngrok tunnel established: %s", tun.URL())

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}
