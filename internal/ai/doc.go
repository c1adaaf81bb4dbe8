// Package ai chooses moves for the computer opponent with a fixed-depth
// minimax search and alpha-beta pruning over the rules in package chess.
//
// The search is synchronous and only reads the boards it is given, so
// concurrent searches over different games need no coordination.
package ai
