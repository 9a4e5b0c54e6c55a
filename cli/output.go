package cli

import (
	"fmt"
	"io"

	"github.com/spf13/viper"
	"github.com/sw965/mdp"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"
)

type report struct {
	Algorithm   string      `yaml:"algorithm"`
	Environment string      `yaml:"environment"`
	Iterations  int         `yaml:"iterations,omitempty"`
	Sweeps      int         `yaml:"sweeps,omitempty"`
	Episodes    int         `yaml:"episodes,omitempty"`
	V           []float64   `yaml:"v,omitempty,flow"`
	Policy      []int       `yaml:"policy,omitempty,flow"`
	Q           [][]float64 `yaml:"q,omitempty"`
	Lengths     []int       `yaml:"episode_lengths,omitempty,flow"`
}

func rows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	ys := make([][]float64, r)
	for i := range ys {
		ys[i] = mat.Row(nil, i, m)
	}
	return ys
}

func writeReport(w io.Writer, b board, r report, policy mdp.Policy) error {
	switch format := viper.GetString("output"); format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		fmt.Fprintf(w, "%s on %s\n", r.Algorithm, r.Environment)
		switch {
		case r.Iterations > 0:
			fmt.Fprintf(w, "iterations: %d\n", r.Iterations)
		case r.Sweeps > 0:
			fmt.Fprintf(w, "sweeps: %d\n", r.Sweeps)
		case r.Episodes > 0:
			fmt.Fprintf(w, "episodes: %d\n", r.Episodes)
		}
		if policy.Dense != nil {
			fmt.Fprintf(w, "\nPolicy (^=up, >=right, v=down, <=left):\n%s", b.RenderPolicy(policy))
		}
		if r.V != nil {
			fmt.Fprintf(w, "\nValue function:\n%s", b.RenderValues(r.V))
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown output format %q", mdp.ErrInvalidParameter, format)
	}
}
