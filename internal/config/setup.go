package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompt runs the interactive setup form on in/out. Values in cur are
// offered as defaults. Host and username are asked again until non-empty.
func Prompt(in io.Reader, out io.Writer, cur CameraSource) (CameraSource, error) {
	r := bufio.NewReader(in)
	src := cur
	if src.Port <= 0 {
		src.Port = DefaultPort
	}
	if src.StreamPath == "" {
		src.StreamPath = DefaultStreamPath
	}

	ask := func(label, def string, required bool) (string, error) {
		for {
			if def != "" {
				fmt.Fprintf(out, "%s [%s]: ", label, def)
			} else {
				fmt.Fprintf(out, "%s: ", label)
			}
			line, err := r.ReadString('\n')
			if err != nil && !(errors.Is(err, io.EOF) && line != "") {
				if errors.Is(err, io.EOF) {
					return "", fmt.Errorf("setup aborted: %w", io.ErrUnexpectedEOF)
				}
				return "", err
			}
			v := strings.TrimSpace(line)
			if v == "" {
				v = def
			}
			if required && v == "" {
				fmt.Fprintf(out, "%s is required.\n", label)
				continue
			}
			return v, nil
		}
	}

	var err error
	if src.Host, err = ask("Camera host", src.Host, true); err != nil {
		return cur, err
	}
	if src.Username, err = ask("Username", src.Username, true); err != nil {
		return cur, err
	}
	if src.Password, err = ask("Password", src.Password, false); err != nil {
		return cur, err
	}
	for {
		p, err := ask("Port", strconv.Itoa(src.Port), false)
		if err != nil {
			return cur, err
		}
		n, convErr := strconv.Atoi(p)
		if convErr != nil || n <= 0 || n > 65535 {
			fmt.Fprintln(out, "Port must be a number between 1 and 65535.")
			continue
		}
		src.Port = n
		break
	}
	if src.StreamPath, err = ask("Stream path", src.StreamPath, false); err != nil {
		return cur, err
	}
	return src, src.Validate()
}
