package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"fourpath-signature/batch"
	"fourpath-signature/keys"
	"fourpath-signature/lattice"
	"fourpath-signature/measure"
	"fourpath-signature/measureutil"
	"fourpath-signature/signverify"
)

func usage() {
	fmt.Println(`usage: fourpath <gen|sign|verify|batch> [options]

Subcommands:
  gen      Generate a keypair; writes ./fourpath_keys/public.json and the
           sealed ./fourpath_keys/secret.blob
           Flags:
             -n        <int>    ring dimension, power of two (default: 512)
             -q        <int>    modulus, prime with q = 1 mod 2n (default: 12289)
             -trials   <int>    max keygen candidates (default: 64)
             -pass     <string> passphrase sealing the secret key (required)

  sign     Sign a message and write ./fourpath_keys/signature.json
           Flags:
             -m        <string> message to sign (required)
             -pass     <string> passphrase for the secret key (required)
             -wire              also print the base64 wire encoding

  verify   Verify ./fourpath_keys/signature.json
           Flags:
             -m        <string> message the signature covers (required)

  batch    Sign n derived messages on a worker pool and verify them
           Flags:
             -pass     <string> passphrase for the secret key (required)
             -count    <int>    batch size (default: 16)
             -workers  <int>    pool size (default: GOMAXPROCS)
             -failfast          stop at the first failure`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "gen":
		runGen(os.Args[2:])
	case "sign":
		runSign(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	case "batch":
		runBatch(os.Args[2:])
	default:
		usage()
	}
	if measure.Enabled {
		measureutil.Dump(os.Stdout)
	}
}

func runGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	n := fs.Int("n", 512, "ring dimension")
	q := fs.Uint64("q", 12289, "modulus")
	trials := fs.Int("trials", lattice.DefaultKeyGenAttempts, "max keygen candidates")
	pass := fs.String("pass", "", "passphrase sealing the secret key")
	fs.Parse(args)
	if *pass == "" {
		log.Fatal("gen: -pass is required")
	}

	par, err := lattice.NewParams(*n, *q)
	if err != nil {
		log.Fatalf("gen: %v", err)
	}
	src, err := lattice.NewSource()
	if err != nil {
		log.Fatalf("gen: %v", err)
	}
	start := time.Now()
	pk, sk, err := signverify.GenerateKeyPair(par, src, lattice.KeyGenOpts{MaxAttempts: *trials})
	if err != nil {
		log.Fatalf("gen: %v", err)
	}
	if err := keys.SavePublic(pk); err != nil {
		log.Fatalf("gen: %v", err)
	}
	if err := keys.SaveSecret(sk, []byte(*pass)); err != nil {
		log.Fatalf("gen: %v", err)
	}
	fmt.Printf("keypair written (n=%d q=%d bound_sq=%d) in %s\n", pk.N, pk.Q, pk.BoundSq, time.Since(start).Round(time.Millisecond))
}

func runSign(args []string) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	msg := fs.String("m", "", "message to sign")
	pass := fs.String("pass", "", "passphrase for the secret key")
	wire := fs.Bool("wire", false, "print base64 wire encoding")
	fs.Parse(args)
	if *msg == "" {
		log.Fatal("sign: -m is required")
	}
	if *pass == "" {
		log.Fatal("sign: -pass is required")
	}
	pk, err := keys.LoadPublic()
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	sk, err := keys.LoadSecret([]byte(*pass))
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	src, err := lattice.NewSource()
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	sig, err := signverify.Sign(sk, pk, []byte(*msg), src)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	if err := keys.SaveSignature(sig); err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Printf("signed: type=%d aux=%dB\n", sig.Type, len(sig.Aux))
	if *wire {
		enc, err := sig.Encode()
		if err != nil {
			log.Fatalf("sign: %v", err)
		}
		fmt.Println(base64.StdEncoding.EncodeToString(enc))
	}
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	msg := fs.String("m", "", "message the signature covers")
	fs.Parse(args)
	if *msg == "" {
		log.Fatal("verify: -m is required")
	}
	pk, err := keys.LoadPublic()
	if err != nil {
		log.Fatalf("verify: %v", err)
	}
	sig, err := keys.LoadSignature()
	if err != nil {
		log.Fatalf("verify: %v", err)
	}
	if signverify.Verify(pk, []byte(*msg), sig) {
		fmt.Println("verify: OK")
		return
	}
	fmt.Println("verify: FAILED")
	os.Exit(1)
}

func runBatch(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	pass := fs.String("pass", "", "passphrase for the secret key")
	count := fs.Int("count", 16, "batch size")
	workers := fs.Int("workers", 0, "pool size")
	failfast := fs.Bool("failfast", false, "stop at the first failure")
	fs.Parse(args)
	if *pass == "" {
		log.Fatal("batch: -pass is required")
	}

	pk, err := keys.LoadPublic()
	if err != nil {
		log.Fatalf("batch: %v", err)
	}
	sk, err := keys.LoadSecret([]byte(*pass))
	if err != nil {
		log.Fatalf("batch: %v", err)
	}
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		log.Fatalf("batch: %v", err)
	}
	msgs := make([][]byte, *count)
	for i := range msgs {
		msgs[i] = []byte(fmt.Sprintf("batch message %d", i))
	}
	sched := &batch.Scheduler{Workers: *workers, FailFast: *failfast}
	start := time.Now()
	signed := sched.Sign(context.Background(), sk, pk, msgs, seed)
	sigs := make([]*keys.Signature, len(signed))
	for _, r := range signed {
		if r.Err != nil {
			log.Fatalf("batch: item %d: %v", r.Index, r.Err)
		}
		sigs[r.Index] = r.Sig
	}
	checked := sched.Verify(context.Background(), pk, msgs, sigs)
	bad := 0
	for _, r := range checked {
		if r.Err == nil && !r.OK {
			bad++
		}
	}
	fmt.Printf("batch: %d signed+verified, %d invalid, in %s\n", *count, bad, time.Since(start).Round(time.Millisecond))
	if bad > 0 {
		os.Exit(1)
	}
}
