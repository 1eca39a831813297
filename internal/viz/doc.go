// Package viz provides the terminal rendering surface for the rain.
//
//   - [Canvas]: cell grid implementing render.Surface, with trail fade emulated
//     by per-cell intensity decay
//   - Status styles, density bar and the blinking idle cursor used by the TUI
//
// Wide glyphs (katakana) occupy two terminal columns; the canvas accounts for
// that when it builds rows.
package viz
