// Package tui renders message and progress dialogs in the terminal with
// Bubble Tea. Model is both the tea.Model and the dispatcher's
// DialogManager, so every manager call happens inside Update on the program
// goroutine.
//
// Message flow:
//   - waitForCommands blocks on the dispatcher's wake-up channel and returns
//     commandsReadyMsg. The handler calls Loop.Pump, which turns queued
//     commands into Show/Close/SetProgress* calls on the Model, then waits
//     again. When the loop terminates the program quits.
//   - Key presses move button focus and resolve the top dialog. Resolution
//     writes the outcome to the result store, where poll-style callers pick
//     it up.
//
// Dialogs stack: the newest one is drawn and takes input, older ones are
// counted in the footer and regain focus once the newer ones close.
package tui
