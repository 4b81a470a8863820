// Package ytdlp wraps the yt-dlp binary used to retrieve source videos.
package ytdlp
