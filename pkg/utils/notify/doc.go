// Package notify prints user-facing status lines for argoboot commands.
//
// Each [MessageType] has its own symbol and colour: error (✗), warning (⚠),
// activity (►), success (✔), info (ℹ), hint (→) and emoji-led titles.
// [StageSeparatingWriter] inserts a blank line before each new title so the
// setup and reset stages read as separate blocks.
package notify
