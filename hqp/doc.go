// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hqp resolves a stack of prioritized least-squares objectives
// into a single solution vector (Hierarchical Quadratic Programming,
// the "task-priority" formulation used for redundancy resolution in
// whole-body and inverse-kinematics control).
//
// A stack is an ordered sequence of levels. Each level combines any
// number of tasks ‖𝐉𝐱 - 𝐯‖₂ with its own equality and inequality
// constraints. The solver optimizes level 0 subject only to its own
// constraints, then optimizes each following level inside the null
// space of everything resolved above it: the substitution
//
//	𝐱 = 𝐱ₚᵣₑᵥ + 𝐍𝐳
//
// reduces the level to the free coordinates 𝐳, where 𝐍 is an
// orthonormal basis for the null space of the accumulated equality
// block (task Jacobian rows, equality rows and resolved active
// inequality rows of every higher level). A lower level can therefore
// never disturb the residual a higher level achieved, even along
// directions the higher level's Hessian was indifferent to.
//
// A Solver is fixed to one variable dimension and carries no state
// between Solve calls.
//
// # Reference
//
// O. Kanoun, F. Lamiraux, P.-B. Wieber: "Kinematic control of redundant
// manipulators: generalizing the task-priority framework to inequality
// task". IEEE Transactions on Robotics 27(4), 2011.
package hqp
