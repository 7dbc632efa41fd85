// Package logx configures the generator's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Kernel log output in the "<prio> tag[pid]: message" shape that
//     early-boot tooling expects from generators
//   - Console output readable (short timestamp + short caller) in debug runs
//   - Optional journal sink when the journal socket is reachable
package logx
