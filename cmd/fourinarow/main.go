package main

import (
	"flag"
	"os"

	"fourinarow/internal/cli"
	"fourinarow/internal/config"
	"fourinarow/internal/game"
	"fourinarow/internal/logging"

	"github.com/rs/zerolog/log"
)

func main() {
	fs := flag.NewFlagSet("fourinarow", flag.ExitOnError)
	configPath := config.RegisterFlag(fs)
	size := fs.Int("size", 0, "board size (overrides BOARD_SIZE)")
	depth := fs.Int("depth", -1, "search depth (overrides SEARCH_DEPTH)")
	boardFile := fs.String("board", "", "start from a board dump file")
	colour := fs.Bool("color", true, "colour the board")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(config.Path(*configPath))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.Setup(cfg.Log.Level, true)

	if *size > 0 {
		cfg.Game.BoardSize = *size
	}
	if *depth >= 0 {
		cfg.Game.SearchDepth = *depth
	}

	var g *game.Game
	if *boardFile != "" {
		text, err := os.ReadFile(*boardFile)
		if err != nil {
			log.Fatal().Err(err).Msg("read board")
		}
		b, err := game.ParseBoard(string(text))
		if err != nil {
			log.Fatal().Err(err).Str("file", *boardFile).Msg("parse board")
		}
		g, err = game.NewGameFromBoard(b, cfg.Game.SearchDepth)
		if err != nil {
			log.Fatal().Err(err).Msg("new game")
		}
	} else {
		g, err = game.NewGame(cfg.Game.BoardSize, cfg.Game.SearchDepth)
		if err != nil {
			log.Fatal().Err(err).Msg("new game")
		}
	}

	if _, err := cli.NewSession(g, os.Stdout, *colour).Run(os.Stdin); err != nil {
		log.Fatal().Err(err).Msg("read input")
	}
}
