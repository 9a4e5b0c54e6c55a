package mdp_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/sw965/mdp"
	"gonum.org/v1/gonum/mat"
)

func TestNewUniformPolicy(t *testing.T) {
	p := mdp.NewUniformPolicy(3, 4)
	if err := p.Validate(3, 4); err != nil {
		t.Fatalf("uniform policy is invalid: %v", err)
	}
	if got := p.At(2, 3); got != 0.25 {
		t.Errorf("At(2, 3) = %v, want 0.25", got)
	}
	if got := p.Greedy(); !slices.Equal(got, []int{0, 0, 0}) {
		t.Errorf("Greedy() = %v, want lowest index on ties", got)
	}
}

func TestNewDeterministicPolicy(t *testing.T) {
	p, err := mdp.NewDeterministicPolicy([]int{3, 0, 2}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Validate(3, 4); err != nil {
		t.Fatalf("deterministic policy is invalid: %v", err)
	}
	if got := p.Greedy(); !slices.Equal(got, []int{3, 0, 2}) {
		t.Errorf("Greedy() = %v", got)
	}

	if _, err := mdp.NewDeterministicPolicy([]int{4}, 4); !errors.Is(err, mdp.ErrInvalidParameter) {
		t.Errorf("action out of range err = %v, want ErrInvalidParameter", err)
	}
}

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  mdp.Policy
		nS, nA  int
		wantErr bool
	}{
		{
			name:   "正常",
			policy: mdp.Policy{Dense: mat.NewDense(2, 2, []float64{0.3, 0.7, 1, 0})},
			nS:     2, nA: 2,
		},
		{
			name:   "異常_nil",
			policy: mdp.Policy{},
			nS:     2, nA: 2,
			wantErr: true,
		},
		{
			name:   "異常_形状不一致",
			policy: mdp.NewUniformPolicy(2, 3),
			nS:     2, nA: 2,
			wantErr: true,
		},
		{
			name:   "異常_行の合計が1でない",
			policy: mdp.Policy{Dense: mat.NewDense(2, 2, []float64{0.3, 0.3, 1, 0})},
			nS:     2, nA: 2,
			wantErr: true,
		},
		{
			name:   "異常_負の確率",
			policy: mdp.Policy{Dense: mat.NewDense(2, 2, []float64{1.5, -0.5, 1, 0})},
			nS:     2, nA: 2,
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.policy.Validate(tc.nS, tc.nA)
			if tc.wantErr {
				if !errors.Is(err, mdp.ErrInvalidParameter) {
					t.Fatalf("err = %v, want ErrInvalidParameter", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPolicyCloneAndSetOneHot(t *testing.T) {
	p := mdp.NewUniformPolicy(2, 3)
	c := p.Clone()
	c.SetOneHot(1, 2)

	if got := p.At(1, 2); got != 1.0/3.0 {
		t.Errorf("Clone must not share storage, original At(1, 2) = %v", got)
	}
	if got := c.RawRowView(1); !slices.Equal(got, []float64{0, 0, 1}) {
		t.Errorf("SetOneHot row = %v", got)
	}
	if err := c.Validate(2, 3); err != nil {
		t.Errorf("one-hot policy is invalid: %v", err)
	}
}
