package vaire

import (
	"log"
)

// showPreview spawns a new Gio GUI window and updates its content with the
// carved frames received from the carve stage. The window lives for the
// duration of the run; closing it early only disables the preview.
func (p *Processor) showPreview() {
	gui := newGui(p.meta.Width, p.meta.Height, p)
	gui.worker = p.frameWorker

	if err := gui.Run(); err != nil {
		log.Printf("preview window error: %v", err)
	}
}
