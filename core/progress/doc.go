// Package progress draws the download progress bar.
package progress
