// Command minranksolve recovers a MinRank instance's kernel using the
// Block-Lanczos / CMSM / residual-GJ pipeline of internal/controller.
//
// Usage:
//
//	minranksolve -i instance.bin -c 4 --mdeg 2 --threads 8
//	minranksolve --ks-rand -c 4 --mdeg 2 -k 3 -r 2
//	minranksolve -i instance.bin --dry
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kcning/minranksolve/internal/config"
	"github.com/kcning/minranksolve/internal/controller"
	"github.com/kcning/minranksolve/internal/loader"
	"github.com/kcning/minranksolve/internal/progress"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &config.Config{}
	var seed int64
	var ksRandDims [2]int // k, r for --ks-rand without an instance file

	cmd := &cobra.Command{
		Use:   "minranksolve",
		Short: "Solve a MinRank instance's kernel via Block-Lanczos over GF(16)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.HasSeed = cmd.Flags().Changed("seed")
			cfg.Seed = seed

			if err := cfg.Validate(); err != nil {
				return err
			}

			var inst *loader.Instance
			if cfg.InputPath != "" {
				var err error
				inst, err = loader.LoadFile(cfg.InputPath)
				if err != nil {
					return err
				}
			} else if cfg.KSRand {
				if ksRandDims[0] <= 0 {
					return fmt.Errorf("--ks-rand without an input file also requires -k (and optionally -r)")
				}
				r := ksRandDims[1]
				if r <= 0 {
					r = 1
				}
				inst = &loader.Instance{K: ksRandDims[0], R: r, NCol: ksRandDims[0] + 1}
			}

			if cfg.Dry {
				rep, err := controller.DrySizeReport(cfg, inst, cfg.Seed)
				if err != nil {
					return err
				}
				printSizeReport(rep)
				return nil
			}

			progress.Logf("starting solve: k=%d r=%d c=%d threads=%d\n", inst.K, inst.R, cfg.C, cfg.Threads)
			rep, err := controller.Run(cfg, inst)
			if err != nil {
				return err
			}
			printSizeReport(rep)
			if rep.Solved {
				fmt.Printf("[+] %d/%d null vectors accepted (%d nonzero coefficients) over %d batches\n",
					rep.NullVectorsFound, rep.TargetNVNum, rep.NonzeroCoeffs, rep.Batches)
				fmt.Print(controller.FormatSolution(rep))
				if rep.FreeVarCount > 0 {
					fmt.Printf("[+] %d free variable(s)\n", rep.FreeVarCount)
				}
			} else {
				fmt.Printf("[+] stopped after %d batches with %d/%d null vectors (%d nonzero coefficients); no solution attempted\n",
					rep.Batches, rep.NullVectorsFound, rep.TargetNVNum, rep.NonzeroCoeffs)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.InputPath, "input", "i", "", "MinRank instance file (required unless --ks-rand)")
	flags.IntVar(&cfg.Threads, "threads", 1, "worker pool size for the parallel sparse mat-vec")
	flags.Int64Var(&seed, "seed", 0, "PRNG seed (default: time-derived)")
	flags.IntVarP(&cfg.C, "c", "c", 1, "number of KS linear-combination rows")
	flags.IntSliceVar(&cfg.MDeg, "mdeg", []int{2}, "multi-degree expansion steps")
	flags.IntVar(&cfg.MacRows, "mac-rows", 0, "rows sampled into the CMSM (0 = all rows)")
	flags.BoolVar(&cfg.KSRand, "ks-rand", false, "ignore input coefficients, use a randomly sampled KS matrix")
	flags.BoolVar(&cfg.Dry, "dry", false, "print Macaulay/CMSM sizing information and exit without solving")
	flags.IntVarP(&ksRandDims[0], "k", "k", 0, "number of MinRank equations (only with --ks-rand and no -i)")
	flags.IntVarP(&ksRandDims[1], "r", "r", 1, "target MinRank rank (only with --ks-rand and no -i)")

	return cmd
}

func printSizeReport(rep *controller.Report) {
	fmt.Printf("[+] k=%d r=%d c=%d\n", rep.K, rep.R, rep.C)
	fmt.Printf("[+] remaining_ncol=%d target_nv_num=%d\n", rep.RemainingNCol, rep.TargetNVNum)
	if rep.CidxsSz > 0 {
		fmt.Printf("[+] cidxs_sz=%d sampled_rows=%d max_tnum=%d avg_tnum=%.2f\n",
			rep.CidxsSz, rep.SampledRows, rep.MaxTnum, rep.AvgTnum)
	}
}
