// Package cli implements the authkeeper command line client.
//
// Commands
//
//	register   create an account (prompts for missing values)
//	login      authenticate and store the access token
//	whoami     show the account behind the stored token
//	logout     forget the stored token
//	ping       check that the server answers
//
// Passwords are read without echo when stdin is a terminal, or as a plain
// line otherwise so the client can be scripted.
package cli
