package licm_test

import (
	"context"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"licm/internal/ir"
	"licm/internal/licm"
)

const guardedSrc = `func guarded(a: int, b: int, c: bool, p: ptr) {
pre:
  goto head
head:
  t = mul int a, b
  v = load int p
  if c, body, exit
body:
  q = div int a, b
  goto head
exit:
  ret
}
`

var _ = Describe("Run", func() {
	var (
		mockCtrl *gomock.Controller
		loop     *MockLoop
		info     *MockLoopInfo
		dt       *MockDominance
		spec     *MockSpeculator

		f                     *ir.Func
		pre, head, body, exit *ir.Block
		env                   licm.Env
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		loop = NewMockLoop(mockCtrl)
		info = NewMockLoopInfo(mockCtrl)
		dt = NewMockDominance(mockCtrl)
		spec = NewMockSpeculator(mockCtrl)

		var err error
		f, err = ir.ParseFunc("guarded.ir", guardedSrc)
		Expect(err).NotTo(HaveOccurred())
		pre, head, body, exit = f.Block("pre"), f.Block("head"), f.Block("body"), f.Block("exit")

		loop.EXPECT().Header().Return(head).AnyTimes()
		loop.EXPECT().Preheader().Return(pre).AnyTimes()
		loop.EXPECT().Contains(gomock.Any()).DoAndReturn(func(b *ir.Block) bool {
			return b == head || b == body
		}).AnyTimes()
		info.EXPECT().LoopOf(gomock.Any()).DoAndReturn(func(b *ir.Block) licm.Loop {
			if b == head || b == body {
				return loop
			}
			return nil
		}).AnyTimes()
		kids := map[*ir.Block][]*ir.Block{pre: {head}, head: {body, exit}}
		dt.EXPECT().Children(gomock.Any()).DoAndReturn(func(b *ir.Block) []*ir.Block {
			return kids[b]
		}).AnyTimes()

		env = licm.Env{Dom: dt, Loops: info, Spec: spec, Verify: true}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should hoist speculatable invariants and keep guarded ones", func() {
		loop.EXPECT().ExitBlocks().Return([]*ir.Block{exit})
		spec.EXPECT().IsSafeToExecuteUnconditionally(f.Value("t")).Return(true)
		spec.EXPECT().IsSafeToExecuteUnconditionally(f.Value("q")).Return(false)
		dt.EXPECT().Dominates(body, exit).Return(false)

		res, err := licm.Run(context.Background(), loop, env)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Changed).To(BeTrue())
		Expect(res.State).To(Equal(licm.StateDone))
		Expect(res.Hoisted).To(Equal([]*ir.Instr{f.Value("t")}))
		Expect(pre.Instrs).To(Equal([]*ir.Instr{f.Value("t")}))
		Expect(f.Value("q").Block).To(BeIdenticalTo(body))
		Expect(f.Value("v").Block).To(BeIdenticalTo(head))
		Expect(res.Stats.Candidates).To(Equal(3))
		Expect(res.Stats.Invariant).To(Equal(2))
		Expect(res.Stats.Unsafe).To(Equal(1))
	})

	It("should treat a loop without exits as vacuously safe", func() {
		loop.EXPECT().ExitBlocks().Return(nil).AnyTimes()
		spec.EXPECT().IsSafeToExecuteUnconditionally(gomock.Any()).Return(false).Times(2)

		res, err := licm.Run(context.Background(), loop, env)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Hoisted).To(Equal([]*ir.Instr{f.Value("t"), f.Value("q")}))
		Expect(pre.Instrs).To(HaveLen(2))
		Expect(pre.Term.Goto.Target).To(BeIdenticalTo(head))
	})

	It("should leave instructions of nested loops alone", func() {
		nested := NewMockLoop(mockCtrl)
		info = NewMockLoopInfo(mockCtrl)
		info.EXPECT().LoopOf(gomock.Any()).DoAndReturn(func(b *ir.Block) licm.Loop {
			switch b {
			case head:
				return loop
			case body:
				return nested
			}
			return nil
		}).AnyTimes()
		env.Loops = info
		spec.EXPECT().IsSafeToExecuteUnconditionally(f.Value("t")).Return(true)

		res, err := licm.Run(context.Background(), loop, env)

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Hoisted).To(Equal([]*ir.Instr{f.Value("t")}))
		Expect(res.Stats.Blocks).To(Equal(1))
		Expect(f.Value("q").Block).To(BeIdenticalTo(body))
	})

	It("should fail before consulting any oracle when the preheader is missing", func() {
		noPre := NewMockLoop(mockCtrl)
		noPre.EXPECT().Header().Return(head).AnyTimes()
		noPre.EXPECT().Preheader().Return(nil)

		res, err := licm.Run(context.Background(), noPre, env)

		Expect(err).To(MatchError(licm.ErrNoPreheader))
		Expect(res.Changed).To(BeFalse())
		Expect(pre.Instrs).To(BeEmpty())
	})

	It("should report no change on a second run", func() {
		loop.EXPECT().ExitBlocks().Return([]*ir.Block{exit}).AnyTimes()
		spec.EXPECT().IsSafeToExecuteUnconditionally(gomock.Any()).DoAndReturn(ir.Speculatable).AnyTimes()
		dt.EXPECT().Dominates(body, exit).Return(false).AnyTimes()

		first, err := licm.Run(context.Background(), loop, env)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Changed).To(BeTrue())

		second, err := licm.Run(context.Background(), loop, env)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Changed).To(BeFalse())
		Expect(second.Hoisted).To(BeEmpty())
	})
})
