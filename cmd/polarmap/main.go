package main

import (
	"flag"
	"log"

	"github.com/go-kit/kit/log/level"
	"github.com/protossprobe/crtbp"
)

const defaultScenario = "~~unset~~"

var (
	scenario string
	dir      string
	show     bool
	debug    bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "polar map scenario TOML file")
	flag.StringVar(&dir, "dir", ".", "directory of the scenario")
	flag.BoolVar(&show, "show", false, "open the map once written")
	flag.BoolVar(&debug, "debug", false, "log the contour levels")
}

func main() {
	flag.Parse()
	sc := crtbp.DefaultScenario()
	if scenario != defaultScenario {
		var err error
		if sc, err = crtbp.LoadScenario(dir, scenario); err != nil {
			log.Fatal(err)
		}
	}
	if show {
		sc.Render.Show = true
	}
	allow := level.AllowInfo()
	if debug {
		allow = level.AllowDebug()
	}
	logger := level.NewFilter(crtbp.NewLogger("polarmap"), allow)
	level.Info(logger).Log("subsys", "scenario", "scenario", sc)
	if _, err := crtbp.PolarMap(sc, logger); err != nil {
		log.Fatalf("%s: %s", sc.Name, err)
	}
}
