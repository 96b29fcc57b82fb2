// Command gosession-probe exercises a live auth backend end to end: sign in,
// fetch the profile, sign out. It is a smoke tool for backend deployments,
// not part of the library surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	goSession "github.com/MrEthical07/goSession"
)

type probeEnv struct {
	BaseURL  string        `env:"GOSESSION_BASE_URL" envDefault:"http://localhost:8000"`
	Email    string        `env:"GOSESSION_EMAIL"`
	Password string        `env:"GOSESSION_PASSWORD"`
	Timeout  time.Duration `env:"GOSESSION_TIMEOUT" envDefault:"10s"`
}

func main() {
	log.SetFlags(0)

	var cfg probeEnv
	if err := env.Parse(&cfg); err != nil {
		log.Fatal("gosession-probe: bad environment: ", err)
	}

	baseURL := flag.String("base-url", cfg.BaseURL, "auth backend base URL")
	email := flag.String("email", cfg.Email, "account email")
	password := flag.String("password", cfg.Password, "account password")
	timeout := flag.Duration("timeout", cfg.Timeout, "per-request timeout")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("gosession-probe: --email and --password (or GOSESSION_EMAIL / GOSESSION_PASSWORD) are required")
	}

	clientCfg := goSession.DefaultConfig()
	clientCfg.API.BaseURL = *baseURL
	clientCfg.API.RequestTimeout = *timeout

	ctx := context.Background()

	client, err := goSession.New().
		WithConfig(clientCfg).
		WithSignalSink(goSession.NewJSONWriterSink(os.Stderr)).
		WithNavigator(goSession.NavigatorFunc(func(route string) {
			log.Print("navigate: ", route)
		})).
		Build(ctx)
	if err != nil {
		log.Fatal("gosession-probe: build failed: ", err)
	}
	defer client.Close()

	login := client.NewLoginFlow()
	defer login.Teardown()

	result, err := login.Submit(ctx, goSession.LoginRequest{
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		log.Fatal("gosession-probe: login failed: ", err)
	}
	if result.Phase != goSession.PhaseAuthenticated {
		log.Fatalf("gosession-probe: login rejected: %s %v", result.Message, result.FieldErrors)
	}
	fmt.Printf("login ok: %s %s <%s>\n", result.User.FirstName, result.User.LastName, result.User.Email)

	profile, err := client.Profile(ctx)
	if err != nil {
		log.Fatal("gosession-probe: profile fetch failed: ", err)
	}
	if !profile.OK {
		log.Fatal("gosession-probe: profile rejected: ", profile.Message)
	}
	fmt.Printf("profile ok: id=%d email=%s\n", profile.User.ID, profile.User.Email)

	if err := client.Logout(ctx); err != nil {
		log.Fatal("gosession-probe: logout failed: ", err)
	}
	fmt.Println("logout ok")

	snapshot := client.Metrics().Snapshot()
	fmt.Printf("requests: login=%d profile=%d logout=%d\n",
		snapshot.Counters[goSession.MetricLoginSuccess],
		snapshot.Counters[goSession.MetricProfileFetch],
		snapshot.Counters[goSession.MetricLogout])
}
