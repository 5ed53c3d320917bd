package chatrelaycmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	chatrelaycmder "github.com/papercomputeco/chatrelay/cmd/chatrelay"
)

var _ = Describe("NewChatrelayCmd", func() {
	It("wires the serve, config and version subcommands", func() {
		cmd := chatrelaycmder.NewChatrelayCmd()
		names := make([]string, 0, len(cmd.Commands()))
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		Expect(names).To(ContainElements("serve", "config", "version"))
	})

	It("registers the global flags", func() {
		cmd := chatrelaycmder.NewChatrelayCmd()
		Expect(cmd.PersistentFlags().Lookup("debug")).NotTo(BeNil())
		Expect(cmd.PersistentFlags().Lookup("config-dir")).NotTo(BeNil())
	})
})
