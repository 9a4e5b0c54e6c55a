package cli

import (
	"errors"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/sw965/mdp"
	"gopkg.in/yaml.v3"
)

func parseReport(output string) report {
	var r report
	Expect(yaml.Unmarshal([]byte(output), &r)).To(Succeed(), output)
	return r
}

var optimalV = []float64{0, -1, -2, -3, -1, -2, -3, -2, -2, -3, -2, -1, -3, -2, -1, 0}

var _ = Describe("Commands", Label("cmd"), func() {
	var root *cobra.Command

	BeforeEach(func() {
		root = newTestRootCmd()
	})

	Describe("version", func() {
		It("reports the version", func() {
			_, output, err := executeCommandC(root, "version")
			Expect(err).To(BeNil())
			Expect(output).To(ContainSubstring(version))
		})
		It("reports the version in long format", Label("flags"), func() {
			_, output, err := executeCommandC(root, "version", "--long")
			Expect(err).To(BeNil())
			Expect(output).To(ContainSubstring("GitCommit"))
			Expect(output).To(ContainSubstring("GoVersion"))
		})
	})

	Describe("value-iteration", func() {
		It("prints the optimal grid world policy", func() {
			_, output, err := executeCommandC(root, "value-iteration")
			Expect(err).To(BeNil())
			Expect(output).To(ContainSubstring("sweeps: 4"))
			Expect(output).To(ContainSubstring("T < < v\n^ ^ ^ v\n^ ^ > v\n^ > > T\n"))
		})
		It("solves the windy grid world", func() {
			_, output, err := executeCommandC(root, "vi", "--env", "windy", "-o", "yaml")
			Expect(err).To(BeNil())
			r := parseReport(output)
			Expect(r.V).To(HaveLen(70))
			Expect(r.V[30]).To(Equal(-15.0))
		})
	})

	Describe("policy-iteration", func() {
		It("returns V, policy and Q as yaml", func() {
			_, output, err := executeCommandC(root, "policy-iteration", "--output", "yaml")
			Expect(err).To(BeNil())
			r := parseReport(output)
			Expect(r.Algorithm).To(Equal("policy-iteration"))
			Expect(r.Iterations).To(BeNumerically(">=", 2))
			Expect(r.Policy).To(Equal([]int{0, 3, 3, 2, 0, 0, 0, 2, 0, 0, 1, 2, 0, 1, 1, 0}))
			Expect(r.Q).To(HaveLen(16))
			for s, v := range r.V {
				Expect(v).To(BeNumerically("~", optimalV[s], 0.015))
			}
		})
		It("fails with NonConvergence when the round cap is too small", func() {
			_, _, err := executeCommandC(root, "pi", "--max-iterations", "1")
			Expect(errors.Is(err, mdp.ErrNonConvergence)).To(BeTrue(), "%v", err)
		})
	})

	Describe("evaluate", func() {
		It("evaluates the uniform random policy", func() {
			_, output, err := executeCommandC(root, "evaluate", "-o", "yaml")
			Expect(err).To(BeNil())
			r := parseReport(output)
			Expect(r.V[1]).To(BeNumerically("~", -14, 0.015))
			Expect(r.V[3]).To(BeNumerically("~", -22, 0.015))
			Expect(r.Policy).To(BeEmpty())
		})
		It("reads the discount factor from the environment", Label("config"), func() {
			Expect(os.Setenv("MDP_DISCOUNT", "0")).To(Succeed())
			DeferCleanup(func() { _ = os.Unsetenv("MDP_DISCOUNT") })

			_, output, err := executeCommandC(root, "evaluate", "-o", "yaml")
			Expect(err).To(BeNil())
			r := parseReport(output)
			Expect(r.V[1]).To(Equal(-1.0))
		})
		It("rejects a discount factor above one", func() {
			_, _, err := executeCommandC(root, "evaluate", "--discount", "1.5")
			Expect(errors.Is(err, mdp.ErrInvalidParameter)).To(BeTrue(), "%v", err)
		})
		It("rejects an unknown environment", func() {
			_, _, err := executeCommandC(root, "evaluate", "--env", "blackjack")
			Expect(errors.Is(err, mdp.ErrInvalidParameter)).To(BeTrue(), "%v", err)
		})
		It("rejects an unknown output format", func() {
			_, _, err := executeCommandC(root, "evaluate", "-o", "json")
			Expect(errors.Is(err, mdp.ErrInvalidParameter)).To(BeTrue(), "%v", err)
		})
	})

	Describe("sarsa", func() {
		It("trains on the windy grid world with a fixed seed", func() {
			_, output, err := executeCommandC(root, "sarsa", "--env", "windy", "--episodes", "50", "--seed", "7", "-o", "yaml")
			Expect(err).To(BeNil())
			r := parseReport(output)
			Expect(r.Episodes).To(Equal(50))
			Expect(r.Lengths).To(HaveLen(50))
			Expect(r.Policy).To(HaveLen(70))
		})
	})
})
