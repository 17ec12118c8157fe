// Package bookkeeping computes portfolio holdings from a list of normalized
// transactions. It is stateless: every run recomputes everything from the
// full transaction history, so a given list always yields the same report.
//
// The core functionalities include:
//   - Lot Supply: open purchase lots per position, consumed by sells and
//     withdrawals in FIFO or LIFO order.
//   - Positions: running quantity, average price, cost basis, deposits,
//     withdrawals, fees, market value and profit and loss of one product or
//     currency within one portfolio.
//   - Bookkeeping: the synthetic cash legs (debit on buy, credit on sell and
//     dividend, fee entries) that keep currency positions consistent with
//     security positions.
//   - Reports: the nested portfolio → ticker → position view consumed by the
//     renderers.
//
// Parsing files, fetching prices and rendering reports are done by the
// reader, market and renderer packages. This package serves as the
// foundational logic for the `bk` command-line tool.
package bookkeeping
