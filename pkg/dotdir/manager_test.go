package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatrelay/pkg/dotdir"
)

var _ = Describe("Manager", func() {
	var (
		tmpDir string
		m      *dotdir.Manager
	)

	// chdir moves into dir for the duration of the spec.
	chdir := func(dir string) {
		origDir, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(dir)).To(Succeed())
		DeferCleanup(func() { _ = os.Chdir(origDir) })
	}

	// setHome points HOME at dir for the duration of the spec.
	setHome := func(dir string) {
		origHome := os.Getenv("HOME")
		Expect(os.Setenv("HOME", dir)).To(Succeed())
		DeferCleanup(func() { _ = os.Setenv("HOME", origHome) })
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-test-*")
		Expect(err).NotTo(HaveOccurred())

		// Resolve symlinks so paths match filepath.Abs results
		// (e.g. on macOS /var -> /private/var).
		tmpDir, err = filepath.EvalSymlinks(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(tmpDir) })

		m = dotdir.NewManager()
	})

	It("creates the override directory if it doesn't exist", func() {
		dir := filepath.Join(tmpDir, "custom")

		result, err := m.Target(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(dir))

		info, err := os.Stat(dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.IsDir()).To(BeTrue())
	})

	It("prefers the override over a local .chatrelay dir", func() {
		Expect(os.Mkdir(filepath.Join(tmpDir, ".chatrelay"), 0o755)).To(Succeed())
		chdir(tmpDir)

		override := filepath.Join(tmpDir, "override")
		result, err := m.Target(override)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(override))
	})

	It("finds a local .chatrelay dir", func() {
		local := filepath.Join(tmpDir, ".chatrelay")
		Expect(os.Mkdir(local, 0o755)).To(Succeed())
		chdir(tmpDir)

		result, err := m.Target("")
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(local))
	})

	It("falls back to the home .chatrelay dir", func() {
		work := filepath.Join(tmpDir, "work")
		home := filepath.Join(tmpDir, "home")
		Expect(os.MkdirAll(work, 0o755)).To(Succeed())
		Expect(os.MkdirAll(filepath.Join(home, ".chatrelay"), 0o755)).To(Succeed())
		chdir(work)
		setHome(home)

		result, err := m.Target("")
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal(filepath.Join(home, ".chatrelay")))
	})

	It("returns an empty path when no directory exists", func() {
		empty := filepath.Join(tmpDir, "empty")
		Expect(os.Mkdir(empty, 0o755)).To(Succeed())
		chdir(empty)
		setHome(empty)

		result, err := m.Target("")
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(BeEmpty())

		_, err = os.Stat(filepath.Join(empty, ".chatrelay"))
		Expect(os.IsNotExist(err)).To(BeTrue())
	})
})
