// Package chess holds the board model and the reduced rule set used by the
// computer opponent: piece movement, path clearance, check and checkmate
// detection, legal move generation and move application.
//
// Castling, en passant and promotion are not part of these rules. Every
// operation treats the board as a value and returns new boards instead of
// mutating the one it was given, so callers may share boards across
// goroutines freely.
package chess
