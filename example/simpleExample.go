// Command example drives a particle filter with a robot looping around the
// arena and prints the ground truth next to the estimate after every tick.
//
// Usage:
//
//	example [config_file]
//
// The optional argument is a TOML config file. Keys it omits keep their
// default values.
package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	pf "github.com/jhoydich/arena-particle-filter"
	"golang.org/x/exp/rand"
)

const ticks = 200

func main() {
	conf := pf.DefaultConfig()
	switch len(os.Args) {
	case 1:
	case 2:
		var err error
		conf, err = pf.LoadConfig(os.Args[1])
		if err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("%d arguments provided (0 required, 1 optional)\nUsage: example [config_file]", len(os.Args)-1)
	}

	robot := pf.Pose{X: conf.BoxWidth / 2, Y: conf.BoxHeight / 2}
	src := rand.NewSource(uint64(time.Now().UnixNano()))

	filter, err := pf.CreatePF(conf, robot, src)
	if err != nil {
		log.Fatal(err)
	}

	for _, w := range filter.Field().Walls() {
		fmt.Printf("wall (%g, %g) -> (%g, %g)\n", w.A.X, w.A.Y, w.B.X, w.B.Y)
	}

	path := loop(conf.BoxWidth, conf.BoxHeight)
	for i := 0; i < ticks; i++ {
		next := path(i)
		delta := pf.Pose{X: next.X - robot.X, Y: next.Y - robot.Y, Heading: next.Heading - robot.Heading}
		robot = next

		if err := filter.Step(delta, robot); err != nil {
			log.Fatal(err)
		}

		est := filter.EstimatedState()
		sx, sy := filter.Spread()
		fmt.Printf("tick %3d  robot (%6.2f, %6.2f, %5.2f)  filter (%6.2f, %6.2f, %5.2f)  spread (%5.2f, %5.2f)\n",
			i, robot.X, robot.Y, robot.Heading, est.X, est.Y, est.Heading, sx, sy)
	}
}

// loop returns the robot pose at each tick along a rectangle inset a quarter of
// the way from each wall. The robot keeps heading 0 like a holonomic base, and
// positions are clamped to the arena.
func loop(w, h float64) func(tick int) pf.Pose {
	x0, y0 := w/4, h/4
	x1, y1 := 3*w/4, 3*h/4
	perimeter := 2 * ((x1 - x0) + (y1 - y0))
	speed := perimeter / ticks

	return func(tick int) pf.Pose {
		s := math.Mod(float64(tick)*speed, perimeter)
		var x, y float64
		switch {
		case s < x1-x0:
			x, y = x0+s, y0
		case s < (x1-x0)+(y1-y0):
			x, y = x1, y0+(s-(x1-x0))
		case s < 2*(x1-x0)+(y1-y0):
			x, y = x1-(s-(x1-x0)-(y1-y0)), y1
		default:
			x, y = x0, y1-(s-2*(x1-x0)-(y1-y0))
		}
		return pf.Pose{X: math.Max(0, math.Min(x, w)), Y: math.Max(0, math.Min(y, h))}
	}
}
