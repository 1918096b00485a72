package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/geost/geost/cluster"
	"github.com/geost/geost/geom"
	"github.com/geost/geost/index"
	"github.com/geost/geost/internal/log"
	"github.com/geost/geost/store"
)

var (
	points   = 100000
	queries  = 10000
	k        = 8
	eps      = 0.5
	seed     = int64(0)
	quiet    = false
	allTests = "LOAD,INSERT,SEARCH,NEAREST,WITHIN,DBSCAN,KMEANS,CLUSTER"
	tests    = allTests
)

func showHelp() bool {
	fmt.Fprintf(os.Stdout, "geost-bench\n\n")
	fmt.Fprintf(os.Stdout, "Usage: geost-bench [-n <points>] [-q <queries>] [-k <clusters>]\n\n")
	fmt.Fprintf(os.Stdout, " -n <points>    Number of random points (default %d)\n", points)
	fmt.Fprintf(os.Stdout, " -r <queries>   Number of queries per test (default %d)\n", queries)
	fmt.Fprintf(os.Stdout, " -k <clusters>  Cluster count for KMEANS (default %d)\n", k)
	fmt.Fprintf(os.Stdout, " -e <eps>       Neighborhood radius for DBSCAN (default %v)\n", eps)
	fmt.Fprintf(os.Stdout, " -s <seed>      Random seed (default: current time)\n")
	fmt.Fprintf(os.Stdout, " -t <tests>     Only run the comma separated list of tests.\n")
	fmt.Fprintf(os.Stdout, " --quiet        Just show timing values\n")
	fmt.Fprintf(os.Stdout, "\n")
	return false
}

func parseArgs() bool {
	defer func() {
		if v := recover(); v != nil {
			if v, ok := v.(string); ok && v == "bad arg" {
				showHelp()
			}
		}
	}()

	args := os.Args[1:]
	readArg := func(arg string) string {
		if len(args) == 0 {
			panic("bad arg")
		}
		var narg = args[0]
		args = args[1:]
		return narg
	}
	readIntArg := func(arg string) int {
		n, err := strconv.ParseUint(readArg(arg), 10, 64)
		if err != nil {
			panic("bad arg")
		}
		return int(n)
	}
	readFloatArg := func(arg string) float64 {
		v, err := strconv.ParseFloat(readArg(arg), 64)
		if err != nil {
			panic("bad arg")
		}
		return v
	}
	badArg := func(arg string) bool {
		fmt.Fprintf(os.Stderr, "Unrecognized option or bad number of args for: '%s'\n", arg)
		return false
	}

	for len(args) > 0 {
		arg := readArg("")
		if arg == "--help" || arg == "-?" {
			return showHelp()
		}
		switch arg {
		default:
			return badArg(arg)
		case "-n":
			points = readIntArg(arg)
			if points <= 0 {
				points = 1
			}
		case "-r":
			queries = readIntArg(arg)
			if queries <= 0 {
				queries = 1
			}
		case "-k":
			k = readIntArg(arg)
			if k <= 0 {
				k = 1
			}
		case "-e":
			eps = readFloatArg(arg)
		case "-s":
			seed = int64(readIntArg(arg))
		case "-t":
			tests = readArg(arg)
		case "--quiet":
			quiet = true
		}
	}
	return true
}

func randPoint(rng *rand.Rand) (x, y float64) {
	return rng.Float64()*360 - 180, rng.Float64()*180 - 90
}

func report(name string, n int, elapsed time.Duration) {
	rate := float64(n) / elapsed.Seconds()
	if quiet {
		fmt.Printf("%s: %s ops/sec\n", name, humanize.Commaf(float64(int(rate))))
		return
	}
	fmt.Printf("%-8s %s ops in %.2fs: %s ops/sec\n",
		name+":", humanize.Comma(int64(n)), elapsed.Seconds(),
		humanize.Commaf(float64(int(rate))))
}

func genPoints(rng *rand.Rand, n int) []*geom.Geometry {
	geoms := make([]*geom.Geometry, n)
	for i := range geoms {
		x, y := randPoint(rng)
		g, err := geom.NewPoint(x, y, geom.WGS84)
		if err != nil {
			log.Fatalf("generate points: %v", err)
		}
		geoms[i] = g
	}
	return geoms
}

func main() {
	if !parseArgs() {
		return
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	geoms := genPoints(rng, points)
	entries := make([]index.Entry, len(geoms))
	for i, g := range geoms {
		entries[i] = index.Entry{ID: uint64(i), Geom: g}
	}

	db := store.New()
	if err := db.Load(entries); err != nil {
		log.Fatalf("load: %v", err)
	}

	run := func(name string) bool {
		for _, test := range strings.Split(tests, ",") {
			if strings.EqualFold(strings.TrimSpace(test), name) {
				return true
			}
		}
		return false
	}

	if run("LOAD") {
		start := time.Now()
		fresh := store.New()
		if err := fresh.Load(entries); err != nil {
			log.Fatalf("load: %v", err)
		}
		report("LOAD", points, time.Since(start))
	}

	if run("INSERT") {
		fresh := store.New()
		start := time.Now()
		for i, g := range geoms {
			fresh.Set(uint64(i), g)
		}
		report("INSERT", points, time.Since(start))
	}

	if run("SEARCH") {
		start := time.Now()
		for i := 0; i < queries; i++ {
			x, y := randPoint(rng)
			rect, err := geom.NewRect(x-1, y-1, x+1, y+1)
			if err != nil {
				log.Fatalf("search: %v", err)
			}
			db.SearchRect(rect)
		}
		report("SEARCH", queries, time.Since(start))
	}

	if run("NEAREST") {
		start := time.Now()
		for i := 0; i < queries; i++ {
			x, y := randPoint(rng)
			db.Nearby(geom.Coordinate{X: x, Y: y}, 10)
		}
		report("NEAREST", queries, time.Since(start))
	}

	if run("WITHIN") {
		start := time.Now()
		for i := 0; i < queries; i++ {
			x, y := randPoint(rng)
			db.WithinDistance(geom.Coordinate{X: x, Y: y}, 1)
		}
		report("WITHIN", queries, time.Since(start))
	}

	// clustering runs once over smaller samples, the quadratic
	// algorithms would otherwise dominate the whole benchmark
	sample := geoms
	if len(sample) > 5000 {
		sample = sample[:5000]
	}

	if run("DBSCAN") {
		start := time.Now()
		if _, err := cluster.DBSCAN(sample, eps, 3); err != nil &&
			!errors.Is(err, cluster.ErrNoClusters) {
			log.Fatalf("dbscan: %v", err)
		}
		report("DBSCAN", len(sample), time.Since(start))
	}

	if run("KMEANS") {
		start := time.Now()
		if _, err := cluster.KMeansRand(sample, k, rng); err != nil {
			log.Fatalf("kmeans: %v", err)
		}
		report("KMEANS", len(sample), time.Since(start))
	}

	if run("CLUSTER") {
		start := time.Now()
		if _, err := cluster.Within(sample, eps); err != nil {
			log.Fatalf("cluster: %v", err)
		}
		report("CLUSTER", len(sample), time.Since(start))
	}
}
