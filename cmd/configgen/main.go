package main

import (
	"flag"
	"log"

	"github.com/danmuck/ktrdump/internal/config"
)

func main() {
	kind := flag.String("kind", "ktrdump", "config kind: decoder|ktrdump")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "", "config path for validation (defaults to per-kind path)")
	force := flag.Bool("force", false, "overwrite existing config file")
	show := flag.Bool("show", false, "print the effective decoder settings after validation")
	flag.Parse()

	if *validate {
		path := *input
		if path == "" {
			path = defaultPath(*kind)
		}
		cfg, err := config.LoadDecoderConfig(path)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated %s config at %s", *kind, path)
		if *show {
			text, err := config.Describe(cfg)
			if err != nil {
				log.Fatal(err)
			}
			log.Printf("Effective decoder settings:\n%s", text)
		}
		return
	}

	target := *output
	if target == "" {
		target = defaultPath(*kind)
	}
	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *kind, target)
}

func defaultPath(kind string) string {
	switch kind {
	case "decoder":
		return "decoder.toml"
	case "ktrdump":
		return "cmd/ktrdump/config.toml"
	default:
		log.Fatalf("unknown kind: %s", kind)
		return ""
	}
}
