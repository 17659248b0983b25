//go:build !android

package main

import "log"

func main() {
	log.SetFlags(0)
	log.Fatal("horologe-android only runs on Android; build it with gomobile, or use the horologe command on the desktop")
}
