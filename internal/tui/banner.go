package tui

import (
	"fmt"
	"io"
)

const banner = `██████╗ ███████╗██████╗  ██████╗ ██████╗  ██████╗  ██████╗
██╔══██╗██╔════╝██╔══██╗██╔═══██╗██╔══██╗██╔═══██╗██╔════╝
██████╔╝█████╗  ██████╔╝██║   ██║██║  ██║██║   ██║██║
██╔══██╗██╔══╝  ██╔═══╝ ██║   ██║██║  ██║██║   ██║██║
██║  ██║███████╗██║     ╚██████╔╝██████╔╝╚██████╔╝╚██████╗
╚═╝  ╚═╝╚══════╝╚═╝      ╚═════╝ ╚═════╝  ╚═════╝  ╚═════╝`

// PrintBanner writes the styled startup banner and tagline.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, TitleStyle.Render(banner))
	fmt.Fprintln(w, BoxStyle.Render(
		TitleStyle.Render("Repository Documentation Downloader")+"\n\n"+
			MutedStyle.Render("Downloads all .md files from a GitHub repository and organizes them.")))
}

// PrintSuccess renders a bordered success message.
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintln(w, BoxStyle.Render(SuccessStyle.Render(message)))
}
