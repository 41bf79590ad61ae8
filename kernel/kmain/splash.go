package kmain

import (
	"tinykern/device/tty"
	"tinykern/device/video/console"
	"tinykern/kernel/cpu"
	"tinykern/kernel/irq"
	"tinykern/kernel/kfmt"
)

// Splash timings in timer ticks. The PIT fires at ~18.2Hz unless
// reprogrammed.
const (
	progressWidth      = 40
	progressFrameTicks = 1
	logoCycles         = 4
	logoFrameTicks     = 1
	logoHoldTicks      = 18
)

// Screen layout (1-based).
const (
	loadingRow  = 12
	progressRow = 14
	progressCol = 20
	logoRow     = 3
	screenWidth = 80
)

// Version is reported by the startup banner.
const Version = "v0.1.0"

var (
	// The following functions are mocked by tests.
	sleepFn        = irq.SleepTicks
	saveFlagsFn    = cpu.SaveFlagsAndDisableInterrupts
	restoreFlagsFn = cpu.RestoreFlags

	logo = [...]string{
		`   _   _             _                       `,
		`  | |_(_)_ __  _   _| | _____ _ __ _ __      `,
		`  | __| | '_ \| | | | |/ / _ \ '__| '_ \     `,
		`  | |_| | | | | |_| |   <  __/ |  | | | |    `,
		`   \__|_|_| |_|\__, |_|\_\___|_|  |_| |_|    `,
		`               |___/                         `,
	}

	logoColors = [...]uint8{
		console.LightRed,
		console.Red,
		console.Brown,
		console.Yellow,
		console.Brown,
		console.Red,
		console.LightRed,
	}

	banner = [...]string{
		` _____ ___ _   _ __   __ _  __ _____ ____  _   _ `,
		`|_   _|_ _| \ | |\ \ / /| |/ /| ____|  _ \| \ | |`,
		`  | |  | ||  \| | \ V / | ' / |  _| | |_) |  \| |`,
		`  | |  | || |\  |  | |  | . \ | |___|  _ <| |\  |`,
		`  |_| |___|_| \_|  |_|  |_|\_\|_____|_| \_\_| \_|`,
	}
)

// playSplash draws a progress bar followed by a color-cycling logo. Frames
// are paced by the timer interrupt.
func playSplash(term tty.Device) {
	term.Clear()

	term.SetColors(console.White, console.Black)
	term.SetCursorPosition(31, loadingRow)
	kfmt.Fprintf(term, "Loading tinykern...")

	for progress := 0; progress <= progressWidth; progress++ {
		drawProgress(term, progress)
		sleepFn(progressFrameTicks)
	}
	clearRows(term, loadingRow, progressRow)

	for cycle := 0; cycle < logoCycles; cycle++ {
		for _, color := range logoColors {
			drawLogo(term, color)
			sleepFn(logoFrameTicks)
		}
	}

	drawLogo(term, console.Brown)
	sleepFn(logoHoldTicks)

	term.ResetColors()
	term.Clear()
}

// drawProgress renders a progress bar with progress out of progressWidth
// cells filled, followed by the completion percentage.
func drawProgress(term tty.Device, progress int) {
	term.SetCursorPosition(progressCol, progressRow)
	term.SetColors(console.White, console.Black)
	term.WriteByte('[')

	for i := 0; i < progressWidth; i++ {
		if i < progress {
			term.SetColors(console.Green, console.Black)
			term.WriteByte('=')
			continue
		}

		term.SetColors(console.DarkGray, console.Black)
		term.WriteByte(' ')
	}

	term.SetColors(console.White, console.Black)
	term.WriteByte(']')
	term.SetCursorPosition(progressCol+progressWidth+3, progressRow)
	kfmt.Fprintf(term, "%3d%%", progress*100/progressWidth)
}

func drawLogo(term tty.Device, color uint8) {
	term.SetColors(color, console.Black)
	for i, line := range logo {
		term.SetCursorPosition(1, uint32(logoRow+i))
		kfmt.Fprintf(term, "%s", line)
	}
}

// clearRows blanks rows from..to (inclusive).
func clearRows(term tty.Device, from, to uint32) {
	term.ResetColors()
	for row := from; row <= to; row++ {
		term.SetCursorPosition(1, row)
		for col := 0; col < screenWidth-1; col++ {
			term.WriteByte(' ')
		}
	}
}

// printBanner prints the startup banner and the operational status line.
// Keyboard echo is held off while the banner is printed so that typed
// characters do not end up in the middle of it.
func printBanner(term tty.Device) {
	flags := saveFlagsFn()
	defer restoreFlagsFn(flags)

	if term != nil {
		term.SetColors(console.Green, console.Black)
	}

	kfmt.Printf("\n\n")
	for _, line := range banner {
		kfmt.Printf("%s\n", line)
	}

	if term != nil {
		term.SetColors(console.White, console.Black)
	}

	kfmt.Printf("\n%45s\n\n", Version)
	kfmt.Printf("Hello from tinykern!\n")
	kfmt.Printf("System is operational...\n")
}
