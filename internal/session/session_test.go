package session_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tu10ng/vrpmock/internal/app"
	"github.com/tu10ng/vrpmock/internal/nodes"
	"github.com/tu10ng/vrpmock/internal/session"
	"github.com/tu10ng/vrpmock/internal/vrp"
)

var _ = Describe("Session", func() {
	var (
		out  *bytes.Buffer
		node *nodes.Node
		sess *session.Session
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}

		var err error
		node, err = app.Nodes.Acquire()
		Expect(err).NotTo(HaveOccurred())

		sess = session.New(out, node, app.Logger)
		Expect(sess.Start()).To(Succeed())
	})

	AfterEach(func() {
		app.Nodes.Release(node.ID)
	})

	feed := func(text string) {
		ExpectWithOffset(1, sess.HandleData([]byte(text))).To(Succeed())
	}

	login := func() {
		feed("root123\rRoot@123\r")
		ExpectWithOffset(1, out.String()).To(ContainSubstring("<Huawei>"))
		out.Reset()
	}

	Describe("login", func() {
		It("starts with the warning banner and a username prompt", func() {
			output := out.String()
			Expect(output).To(ContainSubstring("Warning: This system is restricted to authorized users"))
			Expect(output).To(HaveSuffix("Username:"))
		})

		It("authenticates the configured credential pair", func() {
			feed("root123\r")
			Expect(out.String()).To(ContainSubstring("Password:"))

			feed("Root@123\r")
			output := out.String()
			Expect(output).To(ContainSubstring("The max number of VTY users is 10"))
			Expect(output).To(ContainSubstring("<Huawei>"))
			Expect(sess.Closed()).To(BeFalse())
		})

		It("echoes the username but never the password", func() {
			feed("root123\rRoot@123\r")
			output := out.String()
			Expect(output).To(ContainSubstring("root123"))
			Expect(output).NotTo(ContainSubstring("Root@123"))
		})

		It("authenticates an AAA local-user account", func() {
			Expect(app.Store.CreateLocalUser("alice", "S3cret!")).To(Succeed())
			defer app.Store.RemoveLocalUser("alice")

			feed("alice\rS3cret!\r")
			Expect(out.String()).To(ContainSubstring("<Huawei>"))
		})

		It("re-prompts after a failed attempt", func() {
			feed("root123\rwrong\r")
			output := out.String()
			Expect(output).To(ContainSubstring("Error: Username or password is invalid."))
			Expect(strings.Count(output, "Username:")).To(Equal(2))
			Expect(sess.Closed()).To(BeFalse())
		})

		It("closes after three failed attempts with a distinct final message", func() {
			feed("bad\rbad\rbad\rbad\rbad\rbad\r")
			output := out.String()

			Expect(output).To(ContainSubstring("Error: Too many failed attempts. Connection closed."))
			Expect(sess.Closed()).To(BeTrue())
			// initial prompt plus two retries; no prompt after the third failure
			Expect(strings.Count(output, "Username:")).To(Equal(3))
			Expect(strings.Count(output, "Error: Username or password is invalid.")).To(Equal(2))
		})

		It("restarts the current field on Ctrl+C", func() {
			feed("roo\x03")
			Expect(out.String()).To(HaveSuffix("Username:"))

			feed("root123\rRoot@123\r")
			Expect(out.String()).To(ContainSubstring("<Huawei>"))
		})

		It("supports backspace while typing the username", func() {
			feed("rootx\x7f123\rRoot@123\r")
			output := out.String()
			Expect(output).To(ContainSubstring("\b \b"))
			Expect(output).To(ContainSubstring("<Huawei>"))
		})
	})

	Describe("command handling", func() {
		BeforeEach(func() {
			login()
		})

		It("echoes typed characters and executes on enter", func() {
			feed("display version\r")
			output := out.String()
			Expect(output).To(ContainSubstring("display version"))
			Expect(output).To(ContainSubstring("Huawei Versatile Routing Platform Software"))
			Expect(output).To(HaveSuffix("<Huawei>"))
		})

		It("collapses CRLF into a single line ending", func() {
			feed("\r\n")
			Expect(strings.Count(out.String(), "<Huawei>")).To(Equal(1))
		})

		It("re-prompts on an empty line", func() {
			feed("\r")
			Expect(out.String()).To(HaveSuffix("<Huawei>"))
		})

		It("reports unrecognized commands", func() {
			feed("configure terminal\r")
			Expect(out.String()).To(ContainSubstring("Error: Unrecognized command 'configure terminal'"))
			Expect(out.String()).To(HaveSuffix("<Huawei>"))
		})

		It("walks the view stack and reflects it in the prompt", func() {
			feed("sys\r")
			Expect(out.String()).To(ContainSubstring("Enter system view, return user view with Ctrl+Z."))
			Expect(out.String()).To(HaveSuffix("[Huawei]"))

			feed("sysname R1\r")
			Expect(out.String()).To(HaveSuffix("[R1]"))

			feed("display current-configuration\r")
			Expect(out.String()).To(ContainSubstring("sysname R1"))
		})

		It("cancels the pending line with Ctrl+C", func() {
			feed("disp\x03")
			output := out.String()
			Expect(output).To(ContainSubstring("^C"))
			Expect(output).To(HaveSuffix("<Huawei>"))

			feed("\r")
			Expect(out.String()).NotTo(ContainSubstring("Unrecognized"))
		})

		It("returns to the user view on Ctrl+Z", func() {
			feed("sys\rinterface gi0/0/1\r")
			Expect(out.String()).To(HaveSuffix("[Huawei-GigabitEthernet0/0/1]"))

			feed("\x1a")
			Expect(out.String()).To(HaveSuffix("<Huawei>"))
		})

		It("rings the bell on tab", func() {
			feed("dis\t")
			Expect(out.String()).To(ContainSubstring("\x07"))
		})

		It("erases with backspace before executing", func() {
			feed("sysx\x7f\r")
			output := out.String()
			Expect(output).To(ContainSubstring("\b \b"))
			Expect(output).To(ContainSubstring("Enter system view"))
		})

		It("logs out when quitting the user view", func() {
			feed("quit\r")
			Expect(out.String()).To(ContainSubstring("Logout"))
			Expect(sess.Closed()).To(BeTrue())
		})

		It("ignores input after the session is closed", func() {
			feed("quit\r")
			out.Reset()
			feed("display version\r")
			Expect(out.String()).To(BeEmpty())
		})
	})

	Describe("pagination", func() {
		BeforeEach(func() {
			login()
			feed("screen-length 5 temporary\r")
			out.Reset()
		})

		It("stops at the More banner and withholds the prompt", func() {
			feed("display interface brief\r")
			output := out.String()
			Expect(output).To(ContainSubstring(vrp.MorePrompt))
			Expect(output).NotTo(HaveSuffix("<Huawei>"))
			Expect(strings.Count(output, vrp.MorePrompt)).To(Equal(1))
		})

		It("advances a page per space and prompts after the last page", func() {
			feed("display interface brief\r")
			out.Reset()

			feed(" ")
			Expect(strings.Count(out.String(), vrp.MorePrompt)).To(Equal(1))

			feed(" ")
			output := out.String()
			// the brief table paginates into three pages, so two banners total
			Expect(strings.Count(output, vrp.MorePrompt)).To(Equal(1))
			Expect(output).To(HaveSuffix("<Huawei>"))
		})

		It("advances a single line on enter", func() {
			feed("display interface brief\r")
			before := strings.Count(out.String(), "\r\n")
			feed("\r")
			Expect(out.String()).To(ContainSubstring(vrp.MorePrompt))
			Expect(strings.Count(out.String(), "\r\n")).To(BeNumerically(">", before))
		})

		It("aborts on q and restores the prompt", func() {
			feed("display interface brief\r")
			feed("q")
			output := out.String()
			Expect(output).To(HaveSuffix("<Huawei>"))
			// the rest of the table is never written
			Expect(strings.Count(output, vrp.MorePrompt)).To(Equal(1))
		})

		It("treats keystrokes while paging as pager input, not command input", func() {
			feed("display interface brief\r")
			feed("x")
			Expect(out.String()).NotTo(ContainSubstring("Unrecognized"))
			Expect(out.String()).NotTo(HaveSuffix("x"))
		})
	})
})
