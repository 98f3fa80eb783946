// Command shortsmith turns a long local video into a vertical short.
//
// Typical use:
//
//	shortsmith convert talk.mp4 --title "Launch talk"
//	shortsmith filter 1 sepia
//	shortsmith caption 1 --font Impact --color '#FFFFFF'
//	shortsmith show 1
//
// Every command reads the TOML configuration (see `shortsmith config init`)
// and records lineage in the sqlite database under the storage root.
package main
