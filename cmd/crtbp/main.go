package main

import (
	"flag"
	"log"

	"github.com/go-kit/kit/log/level"
	"github.com/protossprobe/crtbp"
)

const (
	defaultScenario = "~~unset~~"
	defaultInput    = "~~unset~~"
)

var (
	scenario string
	dir      string
	input    string
	elements bool
)

func init() {
	flag.StringVar(&scenario, "scenario", defaultScenario, "propagation scenario TOML file")
	flag.StringVar(&dir, "dir", ".", "directory of the scenario")
	flag.StringVar(&input, "input", defaultInput, "initial states, six numbers each")
	flag.BoolVar(&elements, "elements", false, "initial states are a e i Ω ω M about the primary (angles in degrees)")
}

func main() {
	flag.Parse()
	if input == defaultInput {
		log.Fatal("no input provided")
	}
	sc := crtbp.DefaultScenario()
	sc.Name = "rot"
	if scenario != defaultScenario {
		var err error
		if sc, err = crtbp.LoadScenario(dir, scenario); err != nil {
			log.Fatal(err)
		}
	}
	states, err := crtbp.LoadStateFile(input)
	if err != nil {
		log.Fatal(err)
	}
	if len(states) == 0 {
		log.Fatalf("%s: no initial state", input)
	}
	if elements {
		sys := crtbp.NewSystem(sc.Propagation.Mu)
		for k, s := range states {
			el := crtbp.NewElements(s[0], s[1], s[2], s[3], s[4], s[5])
			if el.E >= 1 {
				log.Fatalf("state %d: only elliptic orbits are supported (%s)", k, el)
			}
			states[k] = sys.ElementsToState(el)
		}
	}
	logger := crtbp.NewLogger("crtbp")
	level.Info(logger).Log("subsys", "scenario", "scenario", sc.Name, "states", len(states), "mu", sc.Propagation.Mu, "step", sc.Propagation.Step, "end", sc.Propagation.End)
	inds, err := crtbp.PropagateStates(sc, states, logger)
	if err != nil {
		log.Fatal(err)
	}
	for k, ind := range inds {
		level.Info(logger).Log("subsys", "crtbp", "state", k, "lcn", ind.LCN, "megno", ind.MEGNO)
	}
}
