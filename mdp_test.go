package mdp_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/sw965/mdp"
)

func newTwoStateTable(t *testing.T) *mdp.Table {
	t.Helper()
	table, err := mdp.NewTable(2, 2)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	// 状態0: 行動0で留まる、行動1で確率0.5ずつ分岐
	mustSet(t, table, 0, 0, mdp.Transition{Prob: 1.0, Next: 0, Reward: 0})
	mustSet(t, table, 0, 1,
		mdp.Transition{Prob: 0.5, Next: 0, Reward: 1},
		mdp.Transition{Prob: 0.5, Next: 1, Reward: 2, Done: true},
	)
	mustSet(t, table, 1, 0, mdp.Transition{Prob: 1.0, Next: 1, Reward: 0, Done: true})
	mustSet(t, table, 1, 1, mdp.Transition{Prob: 1.0, Next: 1, Reward: 0, Done: true})
	return table
}

func mustSet(t *testing.T, table *mdp.Table, s, a int, ts ...mdp.Transition) {
	t.Helper()
	if err := table.Set(s, a, ts...); err != nil {
		t.Fatalf("Set(%d, %d): %v", s, a, err)
	}
}

func TestValidateModel(t *testing.T) {
	tests := []struct {
		name           string
		modify         func(*mdp.Table)
		wantErr        bool
		wantErrMsgSubs []string
	}{
		{
			name:   "正常",
			modify: func(*mdp.Table) {},
		},
		{
			name: "異常_遷移なし",
			modify: func(table *mdp.Table) {
				table.P[1][0] = nil
			},
			wantErr:        true,
			wantErrMsgSubs: []string{"s=1 a=0", "no transitions"},
		},
		{
			name: "異常_確率の合計が1でない",
			modify: func(table *mdp.Table) {
				table.P[0][1][0].Prob = 0.25
			},
			wantErr:        true,
			wantErrMsgSubs: []string{"s=0 a=1", "sum to 0.75"},
		},
		{
			name: "異常_遷移先が範囲外",
			modify: func(table *mdp.Table) {
				table.P[0][0][0].Next = 2
			},
			wantErr:        true,
			wantErrMsgSubs: []string{"next state 2 out of range"},
		},
		{
			name: "異常_複数のエラーを集約",
			modify: func(table *mdp.Table) {
				table.P[0][0] = nil
				table.P[1][1][0].Prob = 2.0
			},
			wantErr:        true,
			wantErrMsgSubs: []string{"s=0 a=0", "s=1 a=1", "not in [0,1]", "sum to 2"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table := newTwoStateTable(t)
			tc.modify(table)
			err := mdp.ValidateModel(table)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, mdp.ErrInvalidModel) {
				t.Fatalf("errors.Is(err, ErrInvalidModel) = false: %v", err)
			}
			for _, sub := range tc.wantErrMsgSubs {
				if !strings.Contains(err.Error(), sub) {
					t.Errorf("error %q does not contain %q", err.Error(), sub)
				}
			}
		})
	}
}

func TestNewTable(t *testing.T) {
	if _, err := mdp.NewTable(0, 4); !errors.Is(err, mdp.ErrInvalidModel) {
		t.Errorf("NewTable(0, 4) err = %v, want ErrInvalidModel", err)
	}

	table, err := mdp.NewTable(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := table.Set(1, 0); !errors.Is(err, mdp.ErrInvalidModel) {
		t.Errorf("Set out of range err = %v, want ErrInvalidModel", err)
	}

	ts := []mdp.Transition{{Prob: 1.0, Next: 0}}
	mustSet(t, table, 0, 0, ts...)
	ts[0].Reward = 100
	if got := table.Transitions(0, 0)[0].Reward; got != 0 {
		t.Errorf("Set must copy transitions, reward = %v", got)
	}
}

func TestTableOf(t *testing.T) {
	src := newTwoStateTable(t)
	dst, err := mdp.TableOf(src)
	if err != nil {
		t.Fatal(err)
	}
	dst.P[0][1][0].Reward = -1
	if src.P[0][1][0].Reward != 1 {
		t.Errorf("TableOf must deep copy the transitions")
	}
	if err := mdp.ValidateModel(dst); err != nil {
		t.Errorf("copied model is invalid: %v", err)
	}
}

func TestLookahead(t *testing.T) {
	table := newTwoStateTable(t)
	v := []float64{10, 20}

	got := mdp.Lookahead(table, v, 0, 1, 0.5)
	// 0.5*(1 + 0.5*10) + 0.5*(2 + 0.5*20)
	want := 0.5*(1+5) + 0.5*(2+10)
	if got != want {
		t.Errorf("Lookahead = %v, want %v", got, want)
	}

	q := mdp.ActionValues(table, v, 0, 0.5, nil)
	if len(q) != 2 || q[0] != 5 || q[1] != want {
		t.Errorf("ActionValues = %v, want [5 %v]", q, want)
	}
}

func TestArgmax(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		want int
	}{
		{name: "empty", xs: nil, want: -1},
		{name: "single", xs: []float64{-3}, want: 0},
		{name: "last", xs: []float64{1, 2, 3}, want: 2},
		{name: "tie_lowest_index", xs: []float64{-1, 4, 0, 4}, want: 1},
		{name: "all_equal", xs: []float64{0, 0, 0, 0}, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := mdp.Argmax(tc.xs); got != tc.want {
				t.Errorf("Argmax(%v) = %d, want %d", tc.xs, got, tc.want)
			}
		})
	}
}
