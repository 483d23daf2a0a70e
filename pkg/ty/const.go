// SPDX-License-Identifier: GPL-3.0-only

// Package ty provides utility types and constants.
package ty

// LB is the line break constant.
const LB = "\n"
