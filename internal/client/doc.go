// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It checks whether the account already has key material, starts the
// background cache refresh and hands control to the terminal UI, which
// walks the user through setup or unlock. The secure session is locked
// and wiped when the program exits.
package client
