// Package main, realms sunucusunun giriş noktasıdır.
//
// Komutlar:
//
//	realms serve            HTTP + WebSocket sunucusu (varsayılan)
//	realms migrate          migration'ları uygular ve çıkar
//	realms prune-sessions   süresi dolmuş refresh session'larını siler
//
// Wire-up init_*.go dosyalarındadır: repository → service → handler → route.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "realms",
		Usage: "Realm social backend with real-time notifications and direct messages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Load environment variables from this file instead of ./.env",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			pruneSessionsCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "realms: %v\n", err)
		os.Exit(1)
	}
}
