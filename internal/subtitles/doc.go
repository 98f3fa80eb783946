// Package subtitles renders caption segments into an Advanced SubStation
// Alpha track that ffmpeg's ass filter can burn into a video.
//
// Style carries the request-level look (font, size, CSS-like weight and a
// #RRGGBB colour). It is converted once into ASS form: colours become
// &H00BBGGRR and weights of 700 or more set Bold to -1.
package subtitles
