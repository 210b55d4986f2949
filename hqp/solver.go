// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hqp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/hierqp/qp"
)

// Options configure a Solver.
type Options struct {
	// QP is forwarded to every per-level active-set solve.
	QP qp.Options
	// FeasTol bounds the residual below which a level's projected
	// equality system is considered consistent.
	FeasTol float64
	// Damping ≥ 0 adds ε𝐈 to each level's reduced Hessian. The default
	// of zero keeps the minimum-norm tie-break exact; small positive
	// values trade that for conditioning near kinematic singularities.
	Damping float64
}

// DefaultOptions returns the options used when NewSolver is given nil.
func DefaultOptions() Options {
	return Options{QP: qp.DefaultOptions(), FeasTol: 1e-7}
}

// Solver resolves prioritized level stacks over a fixed n-dimensional
// variable space. It carries no state between Solve calls: every call
// allocates fresh working matrices and returns owned results.
type Solver struct {
	n    int
	opts Options
}

// NewSolver creates a solver for the n-dimensional variable space.
func NewSolver(n int, opts *Options) (*Solver, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrBadDimension, n)
	}
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}
	return &Solver{n: n, opts: o}, nil
}

// LevelReport carries the per-level telemetry of one Solve call.
type LevelReport struct {
	Priority int
	// LambdaEq holds the multipliers of the level's equality rows,
	// LambdaIneq those of the inequality rows active at the level's
	// optimum, aligned with Active. Either may be nil.
	LambdaEq   *mat.VecDense
	LambdaIneq *mat.VecDense
	// Active lists the inequality rows (indices into the level's
	// stacked inequality block) that ended active.
	Active []int
	// Iterations counts equality subproblems solved for the level.
	Iterations int
	// NullspaceDim is the freedom left to the level by all higher
	// levels, before the level itself was solved.
	NullspaceDim int
	// Inert marks a level that was skipped because no freedom was left.
	Inert bool
}

// Solution is the outcome of one Solve call.
type Solution struct {
	// X is the solution vector: each level's objective is optimal given
	// its own constraints and the resolved rows of every higher level.
	X *mat.VecDense
	// Levels reports per-level multipliers, active sets and iteration
	// counts in processing order.
	Levels []LevelReport
}

// Solve resolves the stack in ascending priority order. Each level is
// reduced into the free coordinates left by the levels above it via
// 𝐱 = 𝐱ₚᵣₑᵥ + 𝐍𝐳, solved there, and its task Jacobian rows, equality
// rows and finally-active inequality rows are appended to the equality
// block whose null space defines 𝐍 for the next level.
//
// Solve aborts on the first infeasible or non-converging level: lower
// levels are only meaningful relative to a valid higher-level solution.
func (s *Solver) Solve(levels []Level) (*Solution, error) {

	for i := range levels {
		if i > 0 && levels[i].Priority <= levels[i-1].Priority {
			return nil, fmt.Errorf("%w: level %d follows level %d",
				ErrBadLevelOrder, levels[i].Priority, levels[i-1].Priority)
		}
		if err := levels[i].check(s.n); err != nil {
			return nil, err
		}
	}

	sol := &Solution{
		X:      mat.NewVecDense(s.n, nil),
		Levels: make([]LevelReport, 0, len(levels)),
	}

	basis := identity(s.n) // 𝐍: nil once the stack is fully constrained
	var resolved *mat.Dense

	for i := range levels {
		lv := &levels[i]
		report := LevelReport{Priority: lv.Priority}

		if basis == nil {
			// Fully constrained by higher levels: the level cannot act.
			report.Inert = true
			sol.Levels = append(sol.Levels, report)
			continue
		}
		_, nz := basis.Dims()
		report.NullspaceDim = nz

		h, g, err := qp.GaussNormal(lv.Tasks, s.n)
		if err != nil {
			return nil, fmt.Errorf("hqp: level %d: %w", lv.Priority, err)
		}
		hz, gz := s.reduceObjective(h, g, basis, sol.X, nz)

		az, bz, aFull, err := s.reduceEqualities(lv, basis, sol.X)
		if err != nil {
			return nil, err
		}
		cz, dz, cFull := s.reduceInequalities(lv, basis, sol.X)

		z, err := s.solveLevel(lv, hz, gz, az, bz, cz, dz, &report)
		if err != nil {
			return nil, err
		}

		// 𝐱 = 𝐱ₚᵣₑᵥ + 𝐍𝐳
		var step mat.VecDense
		step.MulVec(basis, z)
		sol.X.AddVec(sol.X, &step)
		sol.Levels = append(sol.Levels, report)

		// Fix whatever linear functional of 𝐱 this level resolved: its
		// task row space, its equality rows and its active inequality
		// rows. The row space matters even for rank-deficient tasks, so
		// the Jacobian itself is appended rather than the pinned rows.
		resolved = appendBlock(resolved, taskRows(lv, s.n))
		resolved = appendBlock(resolved, aFull)
		resolved = appendBlock(resolved, selectRows(cFull, report.Active))

		if basis, err = nullspaceBasis(resolved, s.n); err != nil {
			return nil, fmt.Errorf("hqp: level %d: %w", lv.Priority, err)
		}
	}

	return sol, nil
}

// reduceObjective projects the level cost into the free coordinates:
// 𝐇𝐳 = 𝐍ᵀ𝐇𝐍 (+ damping) and 𝐠𝐳 = 𝐍ᵀ(𝐇𝐱ₚᵣₑᵥ + 𝐠).
func (s *Solver) reduceObjective(h *mat.SymDense, g *mat.VecDense, basis *mat.Dense, xPrev *mat.VecDense, nz int) (*mat.SymDense, *mat.VecDense) {
	var hn, hzd mat.Dense
	hn.Mul(h, basis)
	hzd.Mul(basis.T(), &hn)
	hz := mat.NewSymDense(nz, nil)
	for i := 0; i < nz; i++ {
		for j := i; j < nz; j++ {
			v := (hzd.At(i, j) + hzd.At(j, i)) / 2
			if i == j {
				v += s.opts.Damping
			}
			hz.SetSym(i, j, v)
		}
	}
	tmp := mat.NewVecDense(s.n, nil)
	tmp.MulVec(h, xPrev)
	tmp.AddVec(tmp, g)
	gz := mat.NewVecDense(nz, nil)
	gz.MulVec(basis.T(), tmp)
	return hz, gz
}

// reduceEqualities stacks and projects the level's equality rows and
// verifies they remain consistent inside the free coordinates.
func (s *Solver) reduceEqualities(lv *Level, basis *mat.Dense, xPrev *mat.VecDense) (az *mat.Dense, bz *mat.VecDense, aFull *mat.Dense, err error) {
	aFull, bFull := lv.stackEqualities(s.n)
	if aFull == nil {
		return nil, nil, nil, nil
	}
	p, _ := aFull.Dims()
	az = &mat.Dense{}
	az.Mul(aFull, basis)
	bz = mat.NewVecDense(p, nil)
	bz.MulVec(aFull, xPrev)
	bz.SubVec(bFull, bz) // 𝐛𝐳 = 𝐛 - 𝐀𝐱ₚᵣₑᵥ

	z0, _, lerr := qp.MinNormLstsq(az, bz)
	if lerr != nil {
		return nil, nil, nil, fmt.Errorf("hqp: level %d: %w", lv.Priority, lerr)
	}
	resid := mat.NewVecDense(p, nil)
	resid.MulVec(az, z0)
	resid.SubVec(resid, bz)
	if r := mat.Norm(resid, 2); r > s.opts.FeasTol {
		return nil, nil, nil, fmt.Errorf("%w: level %d residual %.3g", ErrInfeasibleLevel, lv.Priority, r)
	}
	return az, bz, aFull, nil
}

// reduceInequalities stacks and projects the level's inequality rows.
func (s *Solver) reduceInequalities(lv *Level, basis *mat.Dense, xPrev *mat.VecDense) (cz *mat.Dense, dz *mat.VecDense, cFull *mat.Dense) {
	cFull, dFull := lv.stackInequalities(s.n)
	if cFull == nil {
		return nil, nil, nil
	}
	q, _ := cFull.Dims()
	cz = &mat.Dense{}
	cz.Mul(cFull, basis)
	dz = mat.NewVecDense(q, nil)
	dz.MulVec(cFull, xPrev)
	dz.SubVec(dFull, dz) // 𝐝𝐳 = 𝐝 - 𝐂𝐱ₚᵣₑᵥ
	return cz, dz, cFull
}

// solveLevel runs the reduced problem: the active-set solver when the
// level carries inequalities, the equality primitive otherwise.
func (s *Solver) solveLevel(lv *Level, hz *mat.SymDense, gz *mat.VecDense, az *mat.Dense, bz *mat.VecDense, cz *mat.Dense, dz *mat.VecDense, report *LevelReport) (*mat.VecDense, error) {
	if cz == nil {
		z, lam, err := qp.SolveEquality(hz, gz, matOrNil(az), vecOrNil(bz))
		if err != nil {
			return nil, fmt.Errorf("hqp: level %d: %w", lv.Priority, err)
		}
		report.LambdaEq = lam
		report.Iterations = 1
		return z, nil
	}
	res, err := qp.SolveActiveSet(hz, gz, matOrNil(az), vecOrNil(bz), cz, dz, nil, &s.opts.QP)
	if err != nil {
		return nil, fmt.Errorf("hqp: level %d: %w", lv.Priority, err)
	}
	report.LambdaEq = res.LambdaEq
	report.LambdaIneq = res.LambdaIneq
	report.Active = res.Active
	report.Iterations = res.Iterations
	return res.X, nil
}

// taskRows stacks every task Jacobian of the level, or nil if none.
func taskRows(lv *Level, n int) *mat.Dense {
	rows := 0
	for _, t := range lv.Tasks {
		r, _ := t.J.Dims()
		rows += r
	}
	if rows == 0 {
		return nil
	}
	js := mat.NewDense(rows, n, nil)
	buf := make([]float64, n)
	at := 0
	for _, t := range lv.Tasks {
		r, _ := t.J.Dims()
		for k := 0; k < r; k++ {
			js.SetRow(at, mat.Row(buf, k, t.J))
			at++
		}
	}
	return js
}

// selectRows extracts the given rows of m, or nil when none selected.
func selectRows(m *mat.Dense, rows []int) *mat.Dense {
	if m == nil || len(rows) == 0 {
		return nil
	}
	_, n := m.Dims()
	out := mat.NewDense(len(rows), n, nil)
	buf := make([]float64, n)
	for k, i := range rows {
		out.SetRow(k, mat.Row(buf, i, m))
	}
	return out
}

// appendBlock grows the append-only resolved equality block.
func appendBlock(acc, block *mat.Dense) *mat.Dense {
	if block == nil {
		return acc
	}
	if acc == nil {
		return mat.DenseCopyOf(block)
	}
	var stacked mat.Dense
	stacked.Stack(acc, block)
	return &stacked
}

// matOrNil avoids the typed-nil pitfall when handing a *mat.Dense to
// an interface parameter.
func matOrNil(m *mat.Dense) mat.Matrix {
	if m == nil {
		return nil
	}
	return m
}

func vecOrNil(v *mat.VecDense) mat.Vector {
	if v == nil {
		return nil
	}
	return v
}
