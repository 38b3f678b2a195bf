package output

import "io"

// Option is a functional option for configuring Printer instances.
type Option func(*Printer)

// WithWriter sets the destination. Default is os.Stdout.
func WithWriter(writer io.Writer) Option {
	return func(p *Printer) {
		if writer != nil {
			p.writer = writer
		}
	}
}

// WithMode sets the output mode.
func WithMode(mode Mode) Option {
	return func(p *Printer) {
		p.mode = mode
	}
}

// PlainText forces uncoloured output.
func PlainText() Option {
	return WithMode(ModePlain)
}

// JSON writes entries as JSON lines.
func JSON() Option {
	return WithMode(ModeJSON)
}

// WithWidth truncates header lines to width cells. Zero disables truncation.
func WithWidth(width int) Option {
	return func(p *Printer) {
		if width >= 0 {
			p.width = width
		}
	}
}

// WithSource appends the call site to each header line.
func WithSource(show bool) Option {
	return func(p *Printer) {
		p.showSource = show
	}
}

// TestMode gives deterministic output: plain text, no source, no width limit.
func TestMode() Option {
	return func(p *Printer) {
		p.mode = ModePlain
		p.showSource = false
		p.width = 0
	}
}
