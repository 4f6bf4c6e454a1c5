// 12 Oct 2026

/*

Nearsrv serves highlight sessions over HTTP. A browser opens a
session, uploads its atoms, sends clicks and gets back the selection
and the representations to draw.

Usage:
	nearsrv [options]

Settings come from a .env file if there is one, then from the
environment, then from the flags.

	PDBNEAR_ADDR          -addr          listen address, default :8085
	PDBNEAR_LOG_LEVEL     -log-level     debug, info, warn or error
	PDBNEAR_RADIUS        -r             radius in Å, default 3
	PDBNEAR_WORKERS       -w             goroutines per click, default 1
	PDBNEAR_MAX_SESSIONS  -max-sessions  default 128

Endpoints:
	POST   /sessions                       new session, ?radius= optional
	DELETE /sessions/{id}
	POST   /sessions/{id}/structure        body is an atom table, maybe gzipped
	POST   /sessions/{id}/pick             {"serial": n} or {"x":..,"y":..,"z":..}
	DELETE /sessions/{id}/highlights
	GET    /sessions/{id}/representations
	POST   /sessions/{id}/toggle/{helix|sheet|loop}
	POST   /sessions/{id}/measure/{none|distance|angle|dihedral}
	POST   /sessions/{id}/measure/pick     {"serial": n}
	GET    /healthz
	GET    /metrics

*/
package main
