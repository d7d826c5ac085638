package ssh_test

import (
	"io"
	"runtime"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gossh "golang.org/x/crypto/ssh"

	"github.com/tu10ng/vrpmock/internal/network/ssh"
)

var _ = Describe("Server", func() {
	var server *ssh.Server

	BeforeEach(func() {
		server = ssh.NewServer()
		go func() {
			defer GinkgoRecover()
			Expect(server.ListenAndServe()).To(Succeed())
		}()
		Eventually(server.Addr).ShouldNot(BeNil())
	})

	AfterEach(func() {
		server.Stop()
	})

	// terminal is one interactive SSH shell against the server, with the
	// accumulated output readable while the session runs.
	type terminal struct {
		client *gossh.Client
		sess   *gossh.Session
		stdin  io.WriteCloser

		mu     sync.Mutex
		output []byte
	}

	dial := func() *terminal {
		t := &terminal{}

		clientConfig := &gossh.ClientConfig{
			User:            "vty",
			Auth:            []gossh.AuthMethod{gossh.Password("anything")},
			HostKeyCallback: gossh.InsecureIgnoreHostKey(),
			Timeout:         3 * time.Second,
		}

		var err error
		t.client, err = gossh.Dial("tcp", server.Addr().String(), clientConfig)
		Expect(err).NotTo(HaveOccurred())

		t.sess, err = t.client.NewSession()
		Expect(err).NotTo(HaveOccurred())

		t.stdin, err = t.sess.StdinPipe()
		Expect(err).NotTo(HaveOccurred())
		stdout, err := t.sess.StdoutPipe()
		Expect(err).NotTo(HaveOccurred())

		Expect(t.sess.RequestPty("xterm", 24, 80, gossh.TerminalModes{})).To(Succeed())
		Expect(t.sess.Shell()).To(Succeed())

		go func() {
			defer GinkgoRecover()
			buf := make([]byte, 4096)
			for {
				n, err := stdout.Read(buf)
				if n > 0 {
					t.mu.Lock()
					t.output = append(t.output, buf[:n]...)
					t.mu.Unlock()
				}
				if err != nil {
					return
				}
			}
		}()

		return t
	}

	readOutput := func(t *terminal) func() string {
		return func() string {
			t.mu.Lock()
			defer t.mu.Unlock()
			return string(t.output)
		}
	}

	send := func(t *terminal, text string) {
		_, err := t.stdin.Write([]byte(text))
		Expect(err).NotTo(HaveOccurred())
	}

	login := func(t *terminal) {
		Eventually(readOutput(t), "3s").Should(ContainSubstring("Username:"))
		send(t, "root123\r")
		Eventually(readOutput(t), "3s").Should(ContainSubstring("Password:"))
		send(t, "Root@123\r")
		Eventually(readOutput(t), "3s").Should(ContainSubstring("<Huawei>"))
	}

	It("walks login, a configuration command and logout", func() {
		t := dial()
		defer t.client.Close()

		login(t)

		send(t, "sys\r")
		Eventually(readOutput(t), "3s").Should(ContainSubstring("Enter system view, return user view with Ctrl+Z."))
		Eventually(readOutput(t), "3s").Should(ContainSubstring("[Huawei]"))

		send(t, "display current-configuration\r")
		Eventually(readOutput(t), "3s").Should(ContainSubstring("sysname Huawei"))

		send(t, "return\rquit\r")
		Eventually(readOutput(t), "3s").Should(ContainSubstring("Logout"))

		// The server ends the channel once the session closes.
		done := make(chan error, 1)
		go func() { done <- t.sess.Wait() }()
		Eventually(done, "3s").Should(Receive())
	})

	It("presents the same in-band login as the telnet path", func() {
		t := dial()
		defer t.client.Close()

		Eventually(readOutput(t), "3s").Should(ContainSubstring("Warning: This system is restricted to authorized users"))
		send(t, "root123\rwrong\r")
		Eventually(readOutput(t), "3s").Should(ContainSubstring("Error: Username or password is invalid."))
	})

	It("releases every goroutine when sessions end by logout", func() {
		before := runtime.NumGoroutine()

		for i := 0; i < 8; i++ {
			t := dial()
			login(t)
			send(t, "quit\r")
			Eventually(readOutput(t), "3s").Should(ContainSubstring("Logout"))
			t.client.Close()
		}

		// A stuck per-connection read pump would leave one parked
		// goroutine per session.
		Eventually(runtime.NumGoroutine, "5s").Should(BeNumerically("<=", before+4))
	})
})
