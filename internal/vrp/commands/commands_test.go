package commands_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tu10ng/vrpmock/internal/store"
	"github.com/tu10ng/vrpmock/internal/vrp"
	"github.com/tu10ng/vrpmock/internal/vrp/commands"
)

var _ = Describe("Registry", func() {
	var (
		db       *store.Store
		registry *vrp.Registry
		session  *vrp.Session
	)

	BeforeEach(func() {
		var err error
		db, err = store.New(":memory:", true)
		Expect(err).NotTo(HaveOccurred())

		registry = commands.NewRegistry(db)
		session = vrp.NewSession("Huawei", 24)
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	run := func(command string) string {
		output, matched := registry.Execute(command, session)
		Expect(matched).To(BeTrue(), "expected %q to match a registration", command)
		return output
	}

	Describe("display commands", func() {
		It("renders the version banner", func() {
			Expect(run("display version")).To(ContainSubstring("Huawei Versatile Routing Platform Software"))
		})

		It("treats abbreviated input identically to the canonical form", func() {
			Expect(run("dis ver")).To(Equal(run("display version")))
			Expect(run("d ver")).To(Equal(run("display version")))
		})

		It("includes the hostname in the device status", func() {
			session.EnterSystemView()
			session.SetHostname("R1")
			Expect(run("display device")).To(ContainSubstring("R1's Device status:"))
		})

		It("renders the current date in display clock", func() {
			Expect(run("display clock")).To(MatchRegexp(`\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}`))
		})

		It("shows the brief table for display interface brief", func() {
			output := run("display interface brief")
			Expect(output).To(ContainSubstring("Interface                   PHY"))
			Expect(output).To(ContainSubstring("GigabitEthernet0/0/1"))
		})

		It("shows interface detail for a named interface", func() {
			output := run("display interface gi0/0/1")
			Expect(output).To(ContainSubstring("GigabitEthernet0/0/1 current state : UP"))
		})

		It("reflects sysname changes in the current configuration", func() {
			session.EnterSystemView()
			run("sysname R1")
			Expect(run("display current-configuration")).To(ContainSubstring("sysname R1"))
		})

		It("renders the brief table for both ip interface forms", func() {
			brief := run("display ip interface brief")
			Expect(brief).To(ContainSubstring("*down: administratively down"))
			Expect(run("display ip interface")).To(Equal(brief))
		})

		It("renders the routing table", func() {
			Expect(run("display ip routing-table")).To(ContainSubstring("Routing Table : _public_"))
		})
	})

	Describe("view navigation", func() {
		It("moves between views and updates the prompt", func() {
			Expect(run("system-view")).To(ContainSubstring("Enter system view"))
			Expect(session.Prompt()).To(Equal("[Huawei]"))

			Expect(run("interface gi0/0/1")).To(BeEmpty())
			Expect(session.Prompt()).To(Equal("[Huawei-GigabitEthernet0/0/1]"))

			Expect(run("quit")).To(BeEmpty())
			Expect(session.Prompt()).To(Equal("[Huawei]"))

			Expect(run("return")).To(BeEmpty())
			Expect(session.Prompt()).To(Equal("<Huawei>"))
		})

		It("does not recognize system-view outside the user view", func() {
			run("system-view")
			_, matched := registry.Execute("system-view", session)
			Expect(matched).To(BeFalse())
		})

		It("reports the system-view precondition for sysname in the user view", func() {
			Expect(run("sysname R1")).To(Equal("Error: Please enter system view first"))
			Expect(session.Hostname).To(Equal("Huawei"))
		})

		It("signals logout when quitting the user view", func() {
			Expect(run("quit")).To(Equal(vrp.Logout))
		})

		It("enters the aaa, acl and vlan views from system view", func() {
			run("system-view")

			Expect(run("aaa")).To(BeEmpty())
			Expect(session.Prompt()).To(Equal("[Huawei-aaa]"))
			run("quit")

			Expect(run("acl 2001")).To(BeEmpty())
			Expect(session.Prompt()).To(Equal("[Huawei-acl-basic-2001]"))
			run("quit")

			Expect(run("vlan 10")).To(BeEmpty())
			Expect(session.Prompt()).To(Equal("[Huawei-vlan10]"))
		})
	})

	Describe("screen-length", func() {
		It("updates the session and marks temporary settings", func() {
			Expect(run("screen-length 0 temporary")).To(BeEmpty())
			Expect(session.ScreenLength).To(Equal(0))
			Expect(session.ScreenLengthTemporary).To(BeTrue())
		})

		It("is not recognized in the interface view", func() {
			run("system-view")
			run("interface gi0/0/1")
			_, matched := registry.Execute("screen-length 0", session)
			Expect(matched).To(BeFalse())
		})
	})

	Describe("utility commands", func() {
		It("answers save with a confirmation", func() {
			Expect(run("save")).To(ContainSubstring("successfully"))
		})

		It("reports ping round trips for the target host", func() {
			output := run("ping 10.0.0.1")
			Expect(output).To(ContainSubstring("PING 10.0.0.1"))
			Expect(output).To(ContainSubstring("0.00% packet loss"))
		})

		It("accepts undo as a no-op in configuration views", func() {
			run("system-view")
			Expect(run("undo info-center enable")).To(BeEmpty())
		})
	})

	Describe("local-user commands", func() {
		BeforeEach(func() {
			run("system-view")
			run("aaa")
		})

		It("creates an account that can authenticate", func() {
			Expect(run("local-user alice password irreversible-cipher S3cret!")).To(BeEmpty())

			user, err := db.Authenticate("alice", "S3cret!")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Username).To(Equal("alice"))
		})

		It("lists accounts with a total", func() {
			run("local-user alice password irreversible-cipher S3cret!")
			run("local-user bob password irreversible-cipher Hunter2!")

			output := run("display local-user")
			Expect(output).To(ContainSubstring("alice"))
			Expect(output).To(ContainSubstring("bob"))
			Expect(output).To(ContainSubstring("Total 2 user(s)"))
		})

		It("removes an account with undo local-user", func() {
			run("local-user alice password irreversible-cipher S3cret!")
			Expect(run("undo local-user alice")).To(BeEmpty())

			_, err := db.FindLocalUser("alice")
			Expect(err).To(HaveOccurred())
			Expect(run("display local-user")).To(ContainSubstring("Total 0 user(s)"))
		})

		It("rejects duplicate usernames", func() {
			run("local-user alice password irreversible-cipher S3cret!")
			Expect(run("local-user alice password irreversible-cipher Other1!")).To(
				Equal("Error: Failed to create local-user 'alice'"))
		})
	})

	It("reports unmatched commands to the caller", func() {
		_, matched := registry.Execute("configure terminal", session)
		Expect(matched).To(BeFalse())
	})
})
