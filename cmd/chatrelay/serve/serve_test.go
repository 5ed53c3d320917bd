package servecmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	servecmder "github.com/papercomputeco/chatrelay/cmd/chatrelay/serve"
	"github.com/papercomputeco/chatrelay/pkg/config"
)

// unsetEnv clears key for the duration of the spec.
func unsetEnv(key string) {
	orig, had := os.LookupEnv(key)
	Expect(os.Unsetenv(key)).To(Succeed())
	DeferCleanup(func() {
		if had {
			_ = os.Setenv(key, orig)
			return
		}
		_ = os.Unsetenv(key)
	})
}

// newRootCmd mounts serve under a root carrying the persistent flags the
// chatrelay binary registers.
func newRootCmd(out *bytes.Buffer) *cobra.Command {
	root := &cobra.Command{Use: "chatrelay", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().BoolP("debug", "d", false, "")
	root.PersistentFlags().String("config-dir", "", "")
	root.AddCommand(servecmder.NewServeCmd())
	root.SetOut(out)
	root.SetErr(out)
	return root
}

var _ = Describe("NewServeCmd", func() {
	It("registers the relay flags", func() {
		cmd := servecmder.NewServeCmd()
		for _, name := range []string{"listen", "upstream", "timeout", "log-file", "log-json"} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
	})

	It("documents that empty conversations are rejected locally", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.Long).To(ContainSubstring(`an empty
"messages" array`))
	})

	It("defaults the flags from the default config", func() {
		cmd := servecmder.NewServeCmd()
		Expect(cmd.Flags().Lookup("listen").DefValue).To(Equal(":5000"))
		Expect(cmd.Flags().Lookup("upstream").DefValue).To(Equal("https://openrouter.ai/api/v1"))
		Expect(cmd.Flags().Lookup("timeout").DefValue).To(Equal("60s"))
	})
})

var _ = Describe("Serve command execution", func() {
	var (
		tmpDir    string
		configDir string
		out       *bytes.Buffer
	)

	run := func(args ...string) error {
		root := newRootCmd(out)
		argv := append([]string{"serve"}, args...)
		root.SetArgs(append(argv, "--config-dir", configDir))
		return root.Execute()
	}

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		configDir = filepath.Join(tmpDir, ".chatrelay")
		out = &bytes.Buffer{}

		origDir, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(tmpDir)).To(Succeed())
		DeferCleanup(func() {
			Expect(os.Chdir(origDir)).To(Succeed())
		})

		unsetEnv(config.CredentialEnv)
		unsetEnv("CHATRELAY_RELAY_CREDENTIAL")
		unsetEnv("CHATRELAY_RELAY_LISTEN")
		unsetEnv("CHATRELAY_RELAY_TIMEOUT")
		unsetEnv("CHATRELAY_RELAY_UPSTREAM")
		unsetEnv("CHATRELAY_LOG_FILE")
		unsetEnv("CHATRELAY_LOG_JSON")
	})

	It("refuses to start without a credential", func() {
		err := run("--listen", "127.0.0.1:0")
		Expect(err).To(MatchError(config.ErrMissingCredential))
		Expect(out.String()).NotTo(ContainSubstring("starting relay server"))
	})

	It("refuses to start when the credential is only in config.toml", func() {
		Expect(os.MkdirAll(configDir, 0o755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("[relay]\ncredential = \"sk-from-toml\"\n"), 0o600)).To(Succeed())

		err := run("--listen", "127.0.0.1:0")
		Expect(err).To(MatchError(config.ErrMissingCredential))
		Expect(out.String()).NotTo(ContainSubstring("starting relay server"))
	})

	It("refuses to start when the credential is only in CHATRELAY_RELAY_CREDENTIAL", func() {
		Expect(os.Setenv("CHATRELAY_RELAY_CREDENTIAL", "sk-from-prefixed-env")).To(Succeed())

		err := run("--listen", "127.0.0.1:0")
		Expect(err).To(MatchError(config.ErrMissingCredential))
		Expect(out.String()).NotTo(ContainSubstring("starting relay server"))
	})

	It("reads the credential from a .env file", func() {
		Expect(os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(config.CredentialEnv+"=sk-from-dotenv\n"), 0o600)).To(Succeed())

		// An unusable listen address makes the server return right after
		// configuration succeeded.
		err := run("--listen", "not-an-address")
		Expect(err).To(HaveOccurred())
		Expect(err).NotTo(MatchError(config.ErrMissingCredential))
		Expect(err.Error()).To(ContainSubstring("relay error"))
	})

	It("rejects an invalid timeout", func() {
		Expect(os.Setenv(config.CredentialEnv, "sk-test")).To(Succeed())

		err := run("--timeout", "soon")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("relay.timeout"))
	})

	It("writes JSON records to the log file", func() {
		Expect(os.Setenv(config.CredentialEnv, "sk-test")).To(Succeed())
		logPath := filepath.Join(tmpDir, "relay.log")

		err := run("--listen", "not-an-address", "--log-file", logPath)
		Expect(err).To(HaveOccurred())

		data, err := os.ReadFile(logPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"msg":"starting relay server"`))
		Expect(string(data)).NotTo(ContainSubstring("sk-test"))
	})

	It("writes JSON to stdout with --log-json", func() {
		Expect(os.Setenv(config.CredentialEnv, "sk-test")).To(Succeed())

		err := run("--listen", "not-an-address", "--log-json")
		Expect(err).To(HaveOccurred())
		Expect(out.String()).To(ContainSubstring(`"msg":"starting relay server"`))
	})
})
