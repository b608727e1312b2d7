package script

const stackMax = 256

// VM executes a compiled Chunk against an Environment that resolves global
// names. It is stateless between runs beyond the Chunk itself: Run always
// starts at instruction 0 with an empty stack.
type VM struct {
	chunk *Chunk
	env   Environment
	stack [stackMax]Value
	sp    int
	ip    int
}

// NewVM constructs a VM bound to chunk and env.
func NewVM(chunk *Chunk, env Environment) *VM {
	return &VM{chunk: chunk, env: env}
}

// Run executes the chunk to completion. On error the chunk's bytecode is
// rolled back to its state before Run started, and the VM's stack is reset,
// so the same Chunk can be retried after the environment is fixed up.
func (vm *VM) Run() error {
	vm.chunk.SaveState()
	vm.sp = 0
	vm.ip = 0
	if err := vm.run(); err != nil {
		vm.chunk.RestoreState()
		vm.sp = 0
		return err
	}
	return nil
}

func (vm *VM) push(v Value) error {
	if vm.sp >= stackMax {
		return ErrStackOverflow
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

func (vm *VM) pop() Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[vm.sp-1-distance]
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code()[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readShort() int {
	hi := int(vm.readByte())
	lo := int(vm.readByte())
	return hi<<8 | lo
}

func (vm *VM) run() error {
	code := vm.chunk.Code()
	for vm.ip < len(code) {
		op := vm.readByte()
		switch op {
		case OpConstant:
			if err := vm.push(vm.chunk.ReadConstant(int(vm.readByte()))); err != nil {
				return err
			}
		case OpNil:
			if err := vm.push(Nil()); err != nil {
				return err
			}
		case OpTrue:
			if err := vm.push(Bool(true)); err != nil {
				return err
			}
		case OpFalse:
			if err := vm.push(Bool(false)); err != nil {
				return err
			}
		case OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case OpSubtract:
			if err := vm.arithmetic(func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }); err != nil {
				return err
			}
		case OpMultiply:
			if err := vm.arithmetic(func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b }); err != nil {
				return err
			}
		case OpDivide:
			if err := vm.divide(); err != nil {
				return err
			}
		case OpNegate:
			if err := vm.negate(); err != nil {
				return err
			}
		case OpBinaryNot:
			if err := vm.binaryNot(); err != nil {
				return err
			}
		case OpNot:
			b := vm.pop()
			if err := vm.push(Bool(!b.Truthy())); err != nil {
				return err
			}
		case OpEqual:
			b := vm.pop()
			a := vm.pop()
			eq, err := vm.equal(a, b)
			if err != nil {
				return err
			}
			if err := vm.push(Bool(eq)); err != nil {
				return err
			}
		case OpGreater:
			if err := vm.comparison(func(a, b int64) bool { return a > b }, func(a, b float64) bool { return a > b }); err != nil {
				return err
			}
		case OpLess:
			if err := vm.comparison(func(a, b int64) bool { return a < b }, func(a, b float64) bool { return a < b }); err != nil {
				return err
			}
		case OpPrint:
			v := vm.pop()
			vm.print(v)
		case OpPop:
			vm.pop()
		case OpReturn:
			return nil
		case OpDefineGlobal:
			if err := vm.defineGlobal(); err != nil {
				return err
			}
		case OpGetGlobal:
			if err := vm.getGlobal(); err != nil {
				return err
			}
		case OpSetGlobal:
			if err := vm.setGlobal(); err != nil {
				return err
			}
		case OpJump:
			offset := vm.readShort()
			vm.ip = offset
		case OpJumpIfFalse:
			offset := vm.readShort()
			if !vm.peek(0).Truthy() {
				vm.ip = offset
			}
		default:
			return ErrUnknownOpCode
		}
	}
	return nil
}

// print writes the formatted value to the environment's sink if it exposes
// one, otherwise it is a silent no-op; embedding hosts observe print output
// through whatever Environment.Print-capable type they inject.
func (vm *VM) print(v Value) {
	type printer interface{ Print(string) }
	if p, ok := vm.env.(printer); ok {
		p.Print(v.Format(vm.chunk) + "\n")
	}
}

// add implements '+': numeric addition when both operands are numbers of the
// same kind, or concatenation
// when the LEFT operand is a string, the right operand is rendered to its
// textual form, whatever its kind. A string appearing only on the right is
// an error: '+' is the only operator defined for strings at all.
func (vm *VM) add() error {
	b := vm.pop()
	a := vm.pop()
	if a.IsString() {
		left, err := a.AsText(vm.chunk)
		if err != nil {
			return err
		}
		return vm.push(StringRef(vm.chunk.AddString(left + b.Format(vm.chunk))))
	}
	if b.IsString() {
		return ErrOnlyAdd
	}
	return vm.pushArithmetic(a, b, func(x, y int64) int64 { return x + y }, func(x, y float64) float64 { return x + y })
}

// divide guards integer division by zero before falling into the shared
// arithmetic path; float division by zero is left to produce +/-Inf or NaN
// per IEEE 754, matching ordinary float semantics.
func (vm *VM) divide() error {
	b := vm.peek(0)
	if b.Kind() == KindInt64 {
		bi, _ := b.AsInt()
		if bi == 0 {
			a := vm.peek(1)
			if a.Kind() == KindInt64 {
				vm.pop()
				vm.pop()
				return ErrDivideByZero
			}
		}
	}
	return vm.arithmetic(func(a, b int64) int64 { return a / b }, func(a, b float64) float64 { return a / b })
}

func (vm *VM) arithmetic(iop func(a, b int64) int64, fop func(a, b float64) float64) error {
	b := vm.pop()
	a := vm.pop()
	if a.IsString() || b.IsString() {
		return ErrOnlyAdd
	}
	return vm.pushArithmetic(a, b, iop, fop)
}

// pushArithmetic applies iop on (Int64,Int64) and fop on (Float64,Float64).
// Mixing the two numeric kinds in one arithmetic operation is an error, as
// is any non-numeric operand.
func (vm *VM) pushArithmetic(a, b Value, iop func(a, b int64) int64, fop func(a, b float64) float64) error {
	if a.Kind() == KindInt64 && b.Kind() == KindInt64 {
		ai, _ := a.AsInt()
		bi, _ := b.AsInt()
		return vm.push(Int(iop(ai, bi)))
	}
	if a.Kind() == KindFloat64 && b.Kind() == KindFloat64 {
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		return vm.push(Float(fop(af, bf)))
	}
	return ErrNoNumber
}

func asFloat(v Value) (float64, error) {
	switch v.Kind() {
	case KindFloat64:
		f, _ := v.AsFloat()
		return f, nil
	case KindInt64:
		i, _ := v.AsInt()
		return float64(i), nil
	default:
		return 0, ErrNoNumber
	}
}

// floatTolerance bounds the absolute error accepted when comparing two
// Float64 operands, so arithmetic that merely accumulates rounding noise
// still compares equal.
const floatTolerance = 2e-15

func (vm *VM) equal(a, b Value) (bool, error) {
	if a.Kind() != b.Kind() {
		// Cross-kind equality is always false, Int64 vs Float64 included.
		return false, nil
	}
	switch a.Kind() {
	case KindNil:
		return true, nil
	case KindBool:
		ab, _ := a.AsBool()
		bb, _ := b.AsBool()
		return ab == bb, nil
	case KindInt64:
		ai, _ := a.AsInt()
		bi, _ := b.AsInt()
		return ai == bi, nil
	case KindFloat64:
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		return nearlyEqual(af, bf), nil
	case KindString:
		at, _ := a.AsText(vm.chunk)
		bt, _ := b.AsText(vm.chunk)
		return at == bt, nil
	default:
		return false, ErrUnreachable
	}
}

func nearlyEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= floatTolerance
}

func (vm *VM) comparison(iop func(a, b int64) bool, fop func(a, b float64) bool) error {
	b := vm.pop()
	a := vm.pop()
	if a.Kind() == KindInt64 && b.Kind() == KindInt64 {
		ai, _ := a.AsInt()
		bi, _ := b.AsInt()
		return vm.push(Bool(iop(ai, bi)))
	}
	af, err := asFloat(a)
	if err != nil {
		return err
	}
	bf, err := asFloat(b)
	if err != nil {
		return err
	}
	return vm.push(Bool(fop(af, bf)))
}

func (vm *VM) negate() error {
	v := vm.pop()
	switch v.Kind() {
	case KindInt64:
		i, _ := v.AsInt()
		return vm.push(Int(-i))
	case KindFloat64:
		f, _ := v.AsFloat()
		return vm.push(Float(-f))
	default:
		return ErrNoNumber
	}
}

func (vm *VM) binaryNot() error {
	v := vm.pop()
	i, err := v.AsInt()
	if err != nil {
		return ErrNoInteger
	}
	return vm.push(Int(^i))
}

// detach rewrites a chunk-pool-backed string Value into an inline Text
// Value before it crosses the Environment boundary, since the injected
// Environment has no access to this VM's chunk.
func (vm *VM) detach(v Value) (Value, error) {
	if v.Kind() != KindString {
		return v, nil
	}
	text, err := v.AsText(vm.chunk)
	if err != nil {
		return Value{}, err
	}
	return Text(text), nil
}

func (vm *VM) defineGlobal() error {
	namePos, _ := vm.pop().StringPos()
	name := vm.chunk.GetString(namePos)
	value, err := vm.detach(vm.pop())
	if err != nil {
		return err
	}
	return vm.env.Define(name, value)
}

func (vm *VM) getGlobal() error {
	namePos, _ := vm.pop().StringPos()
	name := vm.chunk.GetString(namePos)
	v, err := vm.env.Get(name)
	if err != nil {
		return err
	}
	return vm.push(v)
}

func (vm *VM) setGlobal() error {
	namePos, _ := vm.pop().StringPos()
	name := vm.chunk.GetString(namePos)
	value, err := vm.detach(vm.peek(0))
	if err != nil {
		return err
	}
	return vm.env.Set(name, value)
}

// Run compiles source and executes it against env in one step, the common
// case used by script and condition behaviors that hold a single expression.
func Run(source string, env Environment) error {
	chunk, err := Compile(source)
	if err != nil {
		return err
	}
	return NewVM(chunk, env).Run()
}
