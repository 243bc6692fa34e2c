package utils

import (
	"log"
	"unsafe"

	"github.com/jwaldrip/odin/cli"
)

type ArgsOpt struct {
	Prefix     string
	Kmer       int
	NumCPU     int
	CfgFn      string
	Cpuprofile string
}

// return global arguments and check if successed
func CheckGlobalArgs(c cli.Command) (opt ArgsOpt, succ bool) {
	opt.Prefix = c.Flag("p").String()
	opt.CfgFn = c.Flag("C").String()
	opt.Cpuprofile = c.Flag("cpuprofile").String()

	var ok bool
	opt.Kmer, ok = c.Flag("K").Get().(int)
	if !ok {
		log.Printf("[CheckGlobalArgs] args 'K' : %v set error\n", c.Flag("K").String())
		return opt, false
	}
	if opt.Kmer <= 0 {
		log.Printf("[CheckGlobalArgs] the argument 'K':%d must be positive\n", opt.Kmer)
		return opt, false
	}
	opt.NumCPU, ok = c.Flag("t").Get().(int)
	if !ok {
		log.Printf("[CheckGlobalArgs] args 't': %v set error\n", c.Flag("t").String())
		return opt, false
	}
	if opt.NumCPU < 1 {
		opt.NumCPU = 1
	}
	return opt, true
}

func Bytes2String(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}
