package main

import (
	"github.com/jwaldrip/odin/cli"
	"github.com/mudesheng/graphhmm/pathracer"
)

const Kmerdef = 55

var app = cli.New("1.0.0", "Profile HMM path search on assembly graphs", func(c cli.Command) {})

func init() {
	def := pathracer.DefaultConfig()
	app.DefineStringFlag("C", "", "yaml configure file")
	app.DefineStringFlag("cpuprofile", "", "write cpu profile to file")
	app.DefineIntFlag("K", Kmerdef, "kmer length")
	app.DefineStringFlag("p", "", "prefix of the output file")
	app.DefineIntFlag("t", 1, "number of CPU used")
	hmm := app.DefineSubCommand("hmm", "align profile HMMs to the graph and report the best paths", pathracer.HMM)
	{
		hmm.DefineStringFlag("hmm", "", "HMMER3 model file, *.zst|*.br accepted")
		hmm.DefineStringFlag("graph", "", "graph edge file, *.zst|*.br accepted")
		hmm.DefineIntFlag("top", def.Top, "number of paths reported per component")
		hmm.DefineIntFlag("edge_id", 0, "match only this edge, 0 for all")
		hmm.DefineIntFlag("min_size", def.MinSize, "component with fewer edges reported as the whole leader edge")
		hmm.DefineIntFlag("max_size", def.MaxSize, "component with more edges skipped")
		hmm.DefineFloat64Flag("T", def.MinScore, "minimum edge match score in bits")
		hmm.DefineBoolFlag("debug", def.Debug, "Enable Debug model[false]")
		hmm.DefineBoolFlag("draw", def.Draw, "output dot graph file of every component")
		hmm.DefineBoolFlag("save", def.Save, "write the ranked paths fasta")
		hmm.DefineBoolFlag("rescore", def.Rescore, "write the distinct edge paths fasta")
		hmm.DefineIntFlag("gene_min_len", def.GeneMinEdgeLen, "min shared edge length joining paths to one gene")
	}
	nbr := app.DefineSubCommand("nbr", "draw the neighbourhood of one edge", pathracer.Nbr)
	{
		nbr.DefineStringFlag("graph", "", "graph edge file")
		nbr.DefineIntFlag("edge_id", 0, "edge ID")
		nbr.DefineIntFlag("left", 0, "backward overhang in model nodes")
		nbr.DefineIntFlag("right", 0, "forward overhang in model nodes")
		nbr.DefineBoolFlag("amino", false, "overhang counts amino acid nodes")
	}
}

func main() {
	app.Start()
}
