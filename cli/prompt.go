package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/warp/tutor-payroll/payroll"
)

// menu maps the interactive choices to run modes, in display order.
var menu = []struct {
	key   string
	label string
	mode  payroll.Mode
}{
	{"1", "Check how much you should transfer to Stripe.", payroll.ModeReportOnly},
	{"2", "Send and document tutors' monthly direct deposits.", payroll.ModePayAndDocument},
	{"3", "Document tutors' monthly direct deposits.", payroll.ModeDocumentOnly},
}

const payWarning = "Caution: You are about to send direct deposits to every tutor, based on what is " +
	"listed in the Square data, using the money currently in your Stripe bank. This " +
	"cannot be undone easily. Are you sure you are intending to send out direct deposits?"

// Prompter asks questions on a line-oriented terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// ChooseMode shows the menu and asks until a valid choice is entered.
func (p *Prompter) ChooseMode() (payroll.Mode, error) {
	fmt.Fprintln(p.out, "Would you like to")
	keys := make([]string, len(menu))
	for i, item := range menu {
		fmt.Fprintf(p.out, "%s. %s\n", item.key, item.label)
		keys[i] = item.key
	}
	prompt := fmt.Sprintf("(%s) ====> ", strings.Join(keys, ", "))

	for {
		answer, err := p.ask(prompt)
		if err != nil {
			return "", err
		}
		for _, item := range menu {
			if answer == item.key {
				return item.mode, nil
			}
		}
	}
}

// ConfirmTransfers asks Y/N until answered. Only "Y" confirms.
func (p *Prompter) ConfirmTransfers() (bool, error) {
	for {
		answer, err := p.ask(payWarning + " (Y, N) ====> ")
		if err != nil {
			return false, err
		}
		switch answer {
		case "Y":
			return true, nil
		case "N":
			return false, nil
		}
	}
}

func (p *Prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", fmt.Errorf("no answer: input closed")
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
